package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
	"github.com/husainasfak/QuickBite-auth-service/internal/token"
)

const bcryptCost = 10

// dummyHash is a bcrypt hash (cost 10) compared against when the account does
// not exist, so the unknown-account path performs the same bcrypt work as the
// wrong-password path and timing does not reveal account existence.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// genericLoginMessage is returned for both unknown account and wrong
// password; the caller must not be able to tell which part failed.
const genericLoginMessage = "email or password does not match"

// RegisterInput carries a validated registration payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is what a successful register/login/refresh produces: the user
// id for the response body and the two signed tokens for cookies.
type AuthResult struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates the register/login/refresh/logout/self flows.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	issuer *token.Issuer
	logger *zap.Logger
	tracer trace.Tracer
}

// NewAuthService wires the auth flows to their collaborators.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	issuer *token.Issuer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		logger: logger,
		tracer: otel.Tracer("auth-service"),
	}
}

// Register creates a customer account and issues its first token pair.
// Duplicate emails are a client error; the credential is hashed before the
// record ever reaches the store.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, apperror.New(apperror.KindClientInput, "email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return AuthResult{}, apperror.Wrap(apperror.KindStore, "check existing user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, apperror.Wrap(apperror.KindStore, "hash password", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, apperror.Wrap(apperror.KindStore, "create user", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	s.audit("auth.register.success", "user_id", user.ID)
	return result, nil
}

// Login checks credentials and issues a fresh token pair. Unknown account and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return AuthResult{}, apperror.New(apperror.KindAuthentication, genericLoginMessage)
		}
		span.RecordError(err)
		return AuthResult{}, apperror.Wrap(apperror.KindStore, "look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, apperror.New(apperror.KindAuthentication, genericLoginMessage)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	s.audit("auth.login.success", "user_id", user.ID)
	return result, nil
}

// Refresh rotates a verified refresh token: a new record and token pair are
// minted first, then the old record is deleted. Concurrent refreshes with the
// same token can both pass the revocation check and each mint a valid pair;
// rotation is best-effort single-use, not exactly-once.
func (s *AuthService) Refresh(ctx context.Context, claims *token.RefreshClaims) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Refresh")
	defer span.End()

	userID, err := claims.UserID()
	if err != nil {
		return AuthResult{}, apperror.Wrap(apperror.KindAuthentication, "invalid refresh token", err)
	}
	oldRecordID, err := claims.RecordID()
	if err != nil {
		return AuthResult{}, apperror.Wrap(apperror.KindAuthentication, "invalid refresh token", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, apperror.New(apperror.KindClientInput, "user with the token could not be found")
		}
		span.RecordError(err)
		return AuthResult{}, apperror.Wrap(apperror.KindStore, "look up user", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	// Delete the old record only after the new pair exists: a crash before
	// this point leaves the old token usable instead of locking the user out.
	// The user already holds a valid new pair, so a failed delete is logged
	// rather than surfaced.
	if err := s.tokens.Delete(ctx, oldRecordID); err != nil {
		span.RecordError(err)
		s.logger.Warn("failed to delete rotated refresh token",
			zap.Int64("token_id", oldRecordID),
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	s.audit("auth.refresh.success", "user_id", user.ID)
	return result, nil
}

// Logout revokes the refresh token by deleting its backing record. Deleting
// an already-deleted record is not an error, so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, claims *token.RefreshClaims) error {
	ctx, span := s.startSpan(ctx, "AuthService.Logout")
	defer span.End()

	recordID, err := claims.RecordID()
	if err != nil {
		return apperror.Wrap(apperror.KindAuthentication, "invalid refresh token", err)
	}

	if err := s.tokens.Delete(ctx, recordID); err != nil {
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "revoke refresh token", err)
	}

	s.audit("auth.logout.success", "subject", claims.Subject)
	return nil
}

// Self returns the authenticated user's record with the credential stripped.
func (s *AuthService) Self(ctx context.Context, userID int64) (domain.UserView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Self")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserView{}, apperror.New(apperror.KindClientInput, "user not found")
		}
		span.RecordError(err)
		return domain.UserView{}, apperror.Wrap(apperror.KindStore, "look up user", err)
	}

	return user.View(), nil
}

// issueTokens mints the refresh record first so its id can be embedded into
// the refresh token, then signs both tokens. Any failure aborts the whole
// operation; a caller never sees success while issuance failed.
func (s *AuthService) issueTokens(ctx context.Context, user domain.User) (AuthResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return AuthResult{}, err
	}

	record, err := s.tokens.Create(ctx, user.ID, time.Now().Add(s.issuer.RefreshTTL()))
	if err != nil {
		return AuthResult{}, apperror.Wrap(apperror.KindStore, "persist refresh token", err)
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user.ID, user.Role, record.ID)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{UserID: user.ID, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, kv ...any) {
	if s.logger != nil {
		s.logger.Sugar().Infow(event, kv...)
	}
}
