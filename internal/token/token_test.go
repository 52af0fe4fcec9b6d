package token_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
	"github.com/husainasfak/QuickBite-auth-service/internal/token"
)

func newTestKeys(t *testing.T) *token.KeyMaterial {
	t.Helper()
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return token.NewKeyMaterial(private, []byte("test-refresh-secret"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	keys := newTestKeys(t)
	issuer := token.NewIssuer(keys, time.Hour, 365*24*time.Hour)
	verifier := token.NewVerifier(keys)

	signed, err := issuer.IssueAccessToken(42, domain.RoleManager)
	require.NoError(t, err)

	claims, err := verifier.VerifyAccess(signed)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, domain.RoleManager, claims.Role)
	require.Equal(t, token.IssuerName, claims.Issuer)

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestAccessTokenRejectsWrongKey(t *testing.T) {
	issuer := token.NewIssuer(newTestKeys(t), time.Hour, time.Hour)
	otherVerifier := token.NewVerifier(newTestKeys(t))

	signed, err := issuer.IssueAccessToken(7, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = otherVerifier.VerifyAccess(signed)
	require.Error(t, err)
}

func TestAccessTokenRejectsAlgorithmConfusion(t *testing.T) {
	keys := newTestKeys(t)
	verifier := token.NewVerifier(keys)

	// A token HMAC-signed with the refresh secret must never pass the access
	// gate, even though the secret is known to the verifier.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		Issuer:    token.IssuerName,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := forged.SignedString([]byte("test-refresh-secret"))
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(signed)
	require.Error(t, err)
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	keys := newTestKeys(t)
	issuer := token.NewIssuer(keys, -time.Minute, time.Hour)
	verifier := token.NewVerifier(keys)

	signed, err := issuer.IssueAccessToken(7, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(signed)
	require.Error(t, err)
}

func TestRefreshTokenCarriesRecordID(t *testing.T) {
	keys := newTestKeys(t)
	issuer := token.NewIssuer(keys, time.Hour, 365*24*time.Hour)
	verifier := token.NewVerifier(keys)

	signed, err := issuer.IssueRefreshToken(42, domain.RoleCustomer, 1337)
	require.NoError(t, err)

	claims, err := verifier.VerifyRefresh(signed)
	require.NoError(t, err)
	require.Equal(t, "1337", claims.ID)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, domain.RoleCustomer, claims.Role)

	recordID, err := claims.RecordID()
	require.NoError(t, err)
	require.Equal(t, int64(1337), recordID)
}

func TestRefreshTokenRejectsAccessGateAndViceVersa(t *testing.T) {
	keys := newTestKeys(t)
	issuer := token.NewIssuer(keys, time.Hour, time.Hour)
	verifier := token.NewVerifier(keys)

	access, err := issuer.IssueAccessToken(1, domain.RoleAdmin)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken(1, domain.RoleAdmin, 2)
	require.NoError(t, err)

	_, err = verifier.VerifyRefresh(access)
	require.Error(t, err)
	_, err = verifier.VerifyAccess(refresh)
	require.Error(t, err)
}

func TestJWKSExposesSigningKey(t *testing.T) {
	keys := newTestKeys(t)
	set := keys.JWKS()
	require.Len(t, set.Keys, 1)
	require.Equal(t, "RS256", set.Keys[0].Algorithm)
	require.Equal(t, "sig", set.Keys[0].Use)
	require.True(t, set.Keys[0].Valid())
}
