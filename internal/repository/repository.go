package repository

import (
	"context"
	"time"

	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
)

// ListParams carries pagination and filtering shared by list queries.
type ListParams struct {
	Query       string
	Role        string
	PerPage     int
	CurrentPage int
}

// Offset converts pagination into a row offset.
func (p ListParams) Offset() int {
	page := p.CurrentPage
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// Limit returns the page size with a sane default.
func (p ListParams) Limit() int {
	if p.PerPage < 1 {
		return 20
	}
	return p.PerPage
}

// UserRepository persists user records.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
	List(ctx context.Context, params ListParams) ([]domain.User, int64, error)
	Delete(ctx context.Context, userID int64) error
}

// TenantRepository persists tenant records.
type TenantRepository interface {
	Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	GetByID(ctx context.Context, tenantID int64) (domain.Tenant, error)
	List(ctx context.Context, params ListParams) ([]domain.Tenant, int64, error)
	Update(ctx context.Context, tenant domain.Tenant) error
	Delete(ctx context.Context, tenantID int64) error
}

// RefreshTokenRepository persists the server-side records backing issued
// refresh tokens. Create mints the id embedded into the token; Find filters
// by both id and owner so a token can never validate against a record owned
// by someone else; Delete is idempotent.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID int64, expiresAt time.Time) (domain.RefreshToken, error)
	Find(ctx context.Context, tokenID, userID int64) (domain.RefreshToken, error)
	Delete(ctx context.Context, tokenID int64) error
}
