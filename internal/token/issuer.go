package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
)

// IssuerName is the iss claim stamped into every token this service signs.
const IssuerName = "auth-service"

// AccessClaims is the payload of an access token: subject and role.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. The registered ID (jti)
// carries the backing store record id, so token and record correlate without
// a join.
type RefreshClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// UserID parses the subject claim.
func (c *RefreshClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// RecordID parses the jti claim into the backing record id.
func (c *RefreshClaims) RecordID() (int64, error) {
	return strconv.ParseInt(c.ID, 10, 64)
}

// Issuer signs access and refresh tokens. It holds no state beyond the key
// material and TTLs; issuing is a pure function of claims and current time.
type Issuer struct {
	keys       *KeyMaterial
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer wires an issuer to its key material.
func NewIssuer(keys *KeyMaterial, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{keys: keys, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken signs {sub, role} with the RSA private key (RS256).
func (i *Issuer) IssueAccessToken(userID int64, role string) (string, error) {
	if i.keys == nil || i.keys.private == nil {
		return "", apperror.New(apperror.KindConfiguration, "access token signing key unavailable")
	}

	now := time.Now()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    IssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.keys.private)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs {sub, role, jti} with the shared secret (HS256).
// tokenID is the id of the store record backing this token.
func (i *Issuer) IssueRefreshToken(userID int64, role string, tokenID int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        strconv.FormatInt(tokenID, 10),
			Issuer:    IssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.keys.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// AccessTTL reports the access token lifetime, used for cookie max-age.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL reports the refresh token lifetime, used for cookie max-age and
// record expiry.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }
