package domain

import "time"

// Role values assigned to users. New registrations default to RoleCustomer;
// managers are created by admins and scoped to a tenant.
const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// User represents an end user that can authenticate with the service.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	TenantID     *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the externally visible shape of a user. The credential hash has
// no field here, so it cannot leak through any serialization path.
type UserView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TenantID  *int64 `json:"tenantId,omitempty"`
}

// View strips the credential from a user record.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		TenantID:  u.TenantID,
	}
}
