package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
)

// CreateUserInput is the admin-facing user creation payload. Role defaults to
// manager; managers are usually assigned to a tenant.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	TenantID  *int64
}

// UpdateUserInput carries the fields an admin may change on a user. The
// credential is deliberately absent.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
	TenantID  *int64
}

// UserService implements admin user management.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
	tracer trace.Tracer
}

// NewUserService wires the user management service.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger, tracer: otel.Tracer("auth-service")}
}

// Create adds a user with an explicit role, defaulting to manager.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.UserView, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Create")
	defer span.End()

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return domain.UserView{}, apperror.New(apperror.KindClientInput, "email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return domain.UserView{}, apperror.Wrap(apperror.KindStore, "check existing user", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleManager
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		span.RecordError(err)
		return domain.UserView{}, apperror.Wrap(apperror.KindStore, "hash password", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Role:         role,
		TenantID:     in.TenantID,
	})
	if err != nil {
		span.RecordError(err)
		return domain.UserView{}, apperror.Wrap(apperror.KindStore, "create user", err)
	}

	s.logger.Info("user created by admin", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return user.View(), nil
}

// Get returns a single user, credential stripped.
func (s *UserService) Get(ctx context.Context, userID int64) (domain.UserView, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Get")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserView{}, apperror.New(apperror.KindClientInput, "user not found")
		}
		span.RecordError(err)
		return domain.UserView{}, apperror.Wrap(apperror.KindStore, "get user", err)
	}
	return user.View(), nil
}

// List returns a page of users with optional free-text and role filters.
func (s *UserService) List(ctx context.Context, params repository.ListParams) ([]domain.UserView, int64, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()

	users, total, err := s.users.List(ctx, params)
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperror.Wrap(apperror.KindStore, "list users", err)
	}

	views := make([]domain.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, user.View())
	}
	return views, total, nil
}

// Update changes the limited editable fields of a user.
func (s *UserService) Update(ctx context.Context, userID int64, in UpdateUserInput) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Update")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.New(apperror.KindClientInput, "user not found")
		}
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "get user", err)
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.Role = in.Role
	user.TenantID = in.TenantID

	if err := s.users.Update(ctx, user); err != nil {
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "update user", err)
	}

	s.logger.Info("user updated by admin", zap.Int64("user_id", userID))
	return nil
}

// Delete removes a user record.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete")
	defer span.End()

	if err := s.users.Delete(ctx, userID); err != nil {
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "delete user", err)
	}

	s.logger.Info("user deleted by admin", zap.Int64("user_id", userID))
	return nil
}
