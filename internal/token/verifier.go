package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks token signatures and expiry. It performs cryptographic
// verification only; revocation checking against the store is a separate,
// explicit step composed by the caller.
type Verifier struct {
	keys *KeyMaterial
}

// NewVerifier wires a verifier to its key material.
func NewVerifier(keys *KeyMaterial) *Verifier {
	return &Verifier{keys: keys}
}

// VerifyAccess validates an access token against the RSA public key. The
// algorithm is pinned to RS256: a token signed with any other method,
// including "none", fails even if otherwise well formed.
func (v *Verifier) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(IssuerName),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return v.keys.public, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token against the shared secret, pinned
// to HS256. It does not consult the store; callers must follow up with the
// revocation check.
func (v *Verifier) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(IssuerName),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return v.keys.refreshSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify refresh token: %w", err)
	}

	claims, ok := parsed.Claims.(*RefreshClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
