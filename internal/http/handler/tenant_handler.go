package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
	"github.com/husainasfak/QuickBite-auth-service/internal/service"
)

type tenantRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// TenantHandler exposes admin tenant management.
type TenantHandler struct {
	tenants *service.TenantService
}

func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	tenant, err := h.tenants.Create(c.Request.Context(), service.TenantInput{Name: req.Name, Address: req.Address})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, ok := pathID(c)
	if !ok {
		return
	}

	tenant, err := h.tenants.Get(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) List(c *gin.Context) {
	tenants, total, err := h.tenants.List(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tenants, "total": total})
}

func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, ok := pathID(c)
	if !ok {
		return
	}

	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.tenants.Update(c.Request.Context(), tenantID, service.TenantInput{Name: req.Name, Address: req.Address}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TenantHandler) Delete(c *gin.Context) {
	tenantID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tenants.Delete(c.Request.Context(), tenantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// pathID parses the :id path segment, rejecting non-numeric values.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperror.Body(apperror.KindClientInput, "id must be a number"))
		return 0, false
	}
	return id, true
}

// listParams reads shared pagination and filter query parameters.
func listParams(c *gin.Context) repository.ListParams {
	perPage, _ := strconv.Atoi(c.Query("perPage"))
	currentPage, _ := strconv.Atoi(c.Query("currentPage"))
	return repository.ListParams{
		Query:       c.Query("q"),
		Role:        c.Query("role"),
		PerPage:     perPage,
		CurrentPage: currentPage,
	}
}
