package domain

import "time"

// Tenant represents a restaurant on the platform. Managers belong to exactly
// one tenant; customers and admins have none.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
