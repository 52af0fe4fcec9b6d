package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/config"
	"github.com/husainasfak/QuickBite-auth-service/internal/http/middleware"
	"github.com/husainasfak/QuickBite-auth-service/internal/service"
	"github.com/husainasfak/QuickBite-auth-service/internal/token"
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler exposes the register/login/refresh/logout/self flows plus the
// key discovery endpoint.
type AuthHandler struct {
	auth         *service.AuthService
	issuer       *token.Issuer
	keys         *token.KeyMaterial
	cookieDomain string
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler wires the handler. Cookies are marked Secure everywhere
// except local development.
func NewAuthHandler(auth *service.AuthService, issuer *token.Issuer, keys *token.KeyMaterial, cfg config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		issuer:       issuer,
		keys:         keys,
		cookieDomain: cfg.CookieDomain,
		secureCookie: cfg.Environment != "development",
		logger:       logger,
	}
}

// Register creates an account and signs the caller in immediately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusCreated, gin.H{"id": result.UserID})
}

// Login exchanges credentials for a fresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, gin.H{"id": result.UserID})
}

// Refresh rotates the token pair. The guard middleware has already verified
// the refresh token and its backing record.
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, ok := middleware.GetRefreshClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apperror.Body(apperror.KindAuthentication, "authentication required"))
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, gin.H{"id": result.UserID})
}

// Logout revokes the presented refresh token and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetRefreshClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apperror.Body(apperror.KindAuthentication, "authentication required"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Self returns the authenticated user's own record, credential stripped.
func (h *AuthHandler) Self(c *gin.Context) {
	claims, ok := middleware.GetAccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apperror.Body(apperror.KindAuthentication, "authentication required"))
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apperror.Body(apperror.KindAuthentication, "authentication required"))
		return
	}

	user, err := h.auth.Self(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// JWKS publishes the access-token verification key.
func (h *AuthHandler) JWKS(c *gin.Context) {
	c.JSON(http.StatusOK, h.keys.JWKS())
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, result service.AuthResult) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, result.AccessToken,
		int(h.issuer.AccessTTL().Seconds()), "/", h.cookieDomain, h.secureCookie, true)
	c.SetCookie(middleware.RefreshTokenCookie, result.RefreshToken,
		int(h.issuer.RefreshTTL().Seconds()), "/", h.cookieDomain, h.secureCookie, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookieDomain, h.secureCookie, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", h.cookieDomain, h.secureCookie, true)
}
