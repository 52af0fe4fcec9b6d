package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
)

// TenantInput is the create/update payload for a tenant.
type TenantInput struct {
	Name    string
	Address string
}

// TenantService implements admin tenant management.
type TenantService struct {
	tenants repository.TenantRepository
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewTenantService wires the tenant management service.
func NewTenantService(tenants repository.TenantRepository, logger *zap.Logger) *TenantService {
	return &TenantService{tenants: tenants, logger: logger, tracer: otel.Tracer("auth-service")}
}

// Create adds a tenant record.
func (s *TenantService) Create(ctx context.Context, in TenantInput) (domain.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "TenantService.Create")
	defer span.End()

	tenant, err := s.tenants.Create(ctx, domain.Tenant{Name: in.Name, Address: in.Address})
	if err != nil {
		span.RecordError(err)
		return domain.Tenant{}, apperror.Wrap(apperror.KindStore, "create tenant", err)
	}

	s.logger.Info("tenant created", zap.Int64("tenant_id", tenant.ID), zap.String("name", tenant.Name))
	return tenant, nil
}

// Get returns a tenant by id.
func (s *TenantService) Get(ctx context.Context, tenantID int64) (domain.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "TenantService.Get")
	defer span.End()

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tenant{}, apperror.New(apperror.KindClientInput, "tenant not found")
		}
		span.RecordError(err)
		return domain.Tenant{}, apperror.Wrap(apperror.KindStore, "get tenant", err)
	}
	return tenant, nil
}

// List returns a page of tenants with optional free-text search.
func (s *TenantService) List(ctx context.Context, params repository.ListParams) ([]domain.Tenant, int64, error) {
	ctx, span := s.tracer.Start(ctx, "TenantService.List")
	defer span.End()

	tenants, total, err := s.tenants.List(ctx, params)
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperror.Wrap(apperror.KindStore, "list tenants", err)
	}
	return tenants, total, nil
}

// Update changes a tenant's name and address.
func (s *TenantService) Update(ctx context.Context, tenantID int64, in TenantInput) error {
	ctx, span := s.tracer.Start(ctx, "TenantService.Update")
	defer span.End()

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.New(apperror.KindClientInput, "tenant not found")
		}
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "get tenant", err)
	}

	tenant.Name = in.Name
	tenant.Address = in.Address

	if err := s.tenants.Update(ctx, tenant); err != nil {
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "update tenant", err)
	}

	s.logger.Info("tenant updated", zap.Int64("tenant_id", tenantID))
	return nil
}

// Delete removes a tenant record.
func (s *TenantService) Delete(ctx context.Context, tenantID int64) error {
	ctx, span := s.tracer.Start(ctx, "TenantService.Delete")
	defer span.End()

	if err := s.tenants.Delete(ctx, tenantID); err != nil {
		span.RecordError(err)
		return apperror.Wrap(apperror.KindStore, "delete tenant", err)
	}

	s.logger.Info("tenant deleted", zap.Int64("tenant_id", tenantID))
	return nil
}
