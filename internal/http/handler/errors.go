package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
)

// respondError maps a service error onto the wire once, at the boundary.
// Untyped errors render as 500 with a generic message; details stay in logs.
func respondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	c.JSON(apperror.Status(kind), apperror.Body(kind, apperror.Message(err)))
}

// respondInvalid renders a request-validation failure.
func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, apperror.Body(apperror.KindClientInput, err.Error()))
}
