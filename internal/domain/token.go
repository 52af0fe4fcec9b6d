package domain

import "time"

// RefreshToken is the server-side record backing one issued refresh token.
// The record exists for exactly as long as the token it backs is accepted for
// rotation: deleting it revokes the token regardless of its signature or
// expiry.
type RefreshToken struct {
	ID        int64
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
