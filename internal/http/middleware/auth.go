package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
	"github.com/husainasfak/QuickBite-auth-service/internal/token"
)

// Cookie names used by the auth flows.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const (
	accessClaimsKey  = "accessClaims"
	refreshClaimsKey = "refreshClaims"
)

type accessClaimsCtxKey struct{}

// authFailedMessage is deliberately uniform: missing, malformed, expired,
// mis-signed and revoked tokens are indistinguishable to the caller.
const authFailedMessage = "authentication required"

// Auth holds the request gates: access-token verification, refresh-token
// verification with the store-backed revocation check, and role checks.
type Auth struct {
	verifier *token.Verifier
	tokens   repository.RefreshTokenRepository
	logger   *zap.Logger
}

// NewAuth wires the gates to the verifier and the refresh-token store.
func NewAuth(verifier *token.Verifier, tokens repository.RefreshTokenRepository, logger *zap.Logger) *Auth {
	return &Auth{verifier: verifier, tokens: tokens, logger: logger}
}

// Authenticate verifies the access-token cookie and attaches its claims to
// the request. Any failure terminates the request before handlers run; there
// is no partially authenticated state.
func (m *Auth) Authenticate(c *gin.Context) {
	tokenStr, err := c.Cookie(AccessTokenCookie)
	if err != nil || tokenStr == "" {
		abortUnauthenticated(c)
		return
	}

	claims, err := m.verifier.VerifyAccess(tokenStr)
	if err != nil {
		abortUnauthenticated(c)
		return
	}

	c.Set(accessClaimsKey, claims)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), accessClaimsCtxKey{}, claims))
	c.Next()
}

// RefreshGuard verifies the refresh-token cookie cryptographically, then
// confirms the backing record still exists and belongs to the claimed
// subject. A missing record means the token was revoked by logout or
// rotation; a store failure is treated the same way (fail closed).
func (m *Auth) RefreshGuard(c *gin.Context) {
	tokenStr, err := c.Cookie(RefreshTokenCookie)
	if err != nil || tokenStr == "" {
		abortUnauthenticated(c)
		return
	}

	claims, err := m.verifier.VerifyRefresh(tokenStr)
	if err != nil {
		abortUnauthenticated(c)
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		abortUnauthenticated(c)
		return
	}
	recordID, err := claims.RecordID()
	if err != nil {
		abortUnauthenticated(c)
		return
	}

	if _, err := m.tokens.Find(c.Request.Context(), recordID, userID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			m.logger.Error("refresh token revocation check failed",
				zap.Int64("token_id", recordID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		abortUnauthenticated(c)
		return
	}

	c.Set(refreshClaimsKey, claims)
	c.Next()
}

// ParseRefresh verifies the refresh-token cookie cryptographically without
// consulting the store. Logout uses this gate instead of RefreshGuard so that
// an already-revoked token can still be logged out: the flow must clear
// cookies and report success no matter how many times it is replayed.
func (m *Auth) ParseRefresh(c *gin.Context) {
	tokenStr, err := c.Cookie(RefreshTokenCookie)
	if err != nil || tokenStr == "" {
		abortUnauthenticated(c)
		return
	}

	claims, err := m.verifier.VerifyRefresh(tokenStr)
	if err != nil {
		abortUnauthenticated(c)
		return
	}

	c.Set(refreshClaimsKey, claims)
	c.Next()
}

// Authorize passes requests whose verified role claim is in the allowed set.
// It must be chained after Authenticate; a request that somehow reaches it
// without claims is rejected as unauthenticated, not forbidden.
func Authorize(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := GetAccessClaims(c)
		if !ok {
			abortUnauthenticated(c)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apperror.Body(apperror.KindAuthorization, "you do not have permission to access this resource"))
			return
		}
		c.Next()
	}
}

// GetAccessClaims exposes the verified access-token claims to handlers.
func GetAccessClaims(c *gin.Context) (*token.AccessClaims, bool) {
	value, ok := c.Get(accessClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*token.AccessClaims)
	return claims, ok
}

// GetRefreshClaims exposes the verified refresh-token claims to handlers.
func GetRefreshClaims(c *gin.Context) (*token.RefreshClaims, bool) {
	value, ok := c.Get(refreshClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*token.RefreshClaims)
	return claims, ok
}

// AccessClaimsFromContext extracts verified claims from a standard context.
func AccessClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	value := ctx.Value(accessClaimsCtxKey{})
	if value == nil {
		return nil, false
	}
	claims, ok := value.(*token.AccessClaims)
	return claims, ok
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		apperror.Body(apperror.KindAuthentication, authFailedMessage))
}
