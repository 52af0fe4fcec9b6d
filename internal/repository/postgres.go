package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository         = (*PostgresUserRepo)(nil)
	_ TenantRepository       = (*PostgresTenantRepo)(nil)
	_ RefreshTokenRepository = (*PostgresRefreshTokenRepo)(nil)
)

// PostgresUserRepo implements UserRepository over pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const selectUserSQL = `SELECT id, first_name, last_name, email, password_hash, role, tenant_id, created_at, updated_at
FROM users`

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

const insertUserSQL = `INSERT INTO users (first_name, last_name, email, password_hash, role, tenant_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, first_name, last_name, email, password_hash, role, tenant_id, created_at, updated_at`

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.db.QueryRow(ctx, insertUserSQL,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.TenantID,
	)
	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

const updateUserSQL = `UPDATE users
SET first_name = $2, last_name = $3, email = $4, role = $5, tenant_id = $6, updated_at = NOW()
WHERE id = $1`

func (r *PostgresUserRepo) Update(ctx context.Context, user domain.User) error {
	if _, err := r.db.Exec(ctx, updateUserSQL,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Role,
		user.TenantID,
	); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) List(ctx context.Context, params ListParams) ([]domain.User, int64, error) {
	where := ` WHERE ($1 = '' OR first_name || ' ' || last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
AND ($2 = '' OR role = $2)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`+where, params.Query, params.Role).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.Query(ctx, selectUserSQL+where+` ORDER BY id DESC LIMIT $3 OFFSET $4`,
		params.Query, params.Role, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.TenantID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// PostgresTenantRepo implements TenantRepository over pgx.
type PostgresTenantRepo struct {
	db *pgxpool.Pool
}

func NewPostgresTenantRepo(pool *pgxpool.Pool) *PostgresTenantRepo {
	return &PostgresTenantRepo{db: pool}
}

const selectTenantSQL = `SELECT id, name, address, created_at, updated_at FROM tenants`

func (r *PostgresTenantRepo) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO tenants (name, address) VALUES ($1, $2)
RETURNING id, name, address, created_at, updated_at`, tenant.Name, tenant.Address)
	created, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("create tenant: %w", err)
	}
	return created, nil
}

func (r *PostgresTenantRepo) GetByID(ctx context.Context, tenantID int64) (domain.Tenant, error) {
	row := r.db.QueryRow(ctx, selectTenantSQL+` WHERE id = $1`, tenantID)
	tenant, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return tenant, nil
}

func (r *PostgresTenantRepo) List(ctx context.Context, params ListParams) ([]domain.Tenant, int64, error) {
	where := ` WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tenants`+where, params.Query).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	rows, err := r.db.Query(ctx, selectTenantSQL+where+` ORDER BY id DESC LIMIT $2 OFFSET $3`,
		params.Query, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, total, nil
}

func (r *PostgresTenantRepo) Update(ctx context.Context, tenant domain.Tenant) error {
	if _, err := r.db.Exec(ctx, `UPDATE tenants SET name = $2, address = $3, updated_at = NOW() WHERE id = $1`,
		tenant.ID, tenant.Name, tenant.Address); err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

func (r *PostgresTenantRepo) Delete(ctx context.Context, tenantID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID); err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Address, &tenant.CreatedAt, &tenant.UpdatedAt)
	return tenant, err
}

// PostgresRefreshTokenRepo implements RefreshTokenRepository over pgx.
type PostgresRefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRefreshTokenRepo(pool *pgxpool.Pool) *PostgresRefreshTokenRepo {
	return &PostgresRefreshTokenRepo{db: pool}
}

func (r *PostgresRefreshTokenRepo) Create(ctx context.Context, userID int64, expiresAt time.Time) (domain.RefreshToken, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO refresh_tokens (user_id, expires_at) VALUES ($1, $2)
RETURNING id, user_id, expires_at, created_at`, userID, expiresAt)

	var record domain.RefreshToken
	if err := row.Scan(&record.ID, &record.UserID, &record.ExpiresAt, &record.CreatedAt); err != nil {
		return domain.RefreshToken{}, fmt.Errorf("create refresh token: %w", err)
	}
	return record, nil
}

// Find filters by both id and owner: a token must never validate against a
// record that belongs to a different user.
func (r *PostgresRefreshTokenRepo) Find(ctx context.Context, tokenID, userID int64) (domain.RefreshToken, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, expires_at, created_at FROM refresh_tokens
WHERE id = $1 AND user_id = $2`, tokenID, userID)

	var record domain.RefreshToken
	if err := row.Scan(&record.ID, &record.UserID, &record.ExpiresAt, &record.CreatedAt); err != nil {
		return domain.RefreshToken{}, fmt.Errorf("find refresh token: %w", err)
	}
	return record, nil
}

func (r *PostgresRefreshTokenRepo) Delete(ctx context.Context, tokenID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, tokenID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
