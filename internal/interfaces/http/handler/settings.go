package handler

import (
	"github.com/gin-gonic/gin"
	appsettings "github.com/primeapparel/backend/internal/application/settings"
	"github.com/primeapparel/backend/internal/infrastructure/auth"
	"github.com/primeapparel/backend/internal/interfaces/http/middleware"
	"github.com/primeapparel/backend/internal/interfaces/http/router"
)

// SettingsHandler handles company profile API endpoints
type SettingsHandler struct {
	BaseHandler
	service *appsettings.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *appsettings.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings godoc
// @ID           getCompanySettings
// @Summary      Get company profile
// @Description  Returns the company profile printed on trade documents. Falls back to compiled-in defaults when none has been saved.
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[appsettings.SettingsResponse]
// @Security     BearerAuth
// @Router       /settings/company [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	resp, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings godoc
// @ID           updateCompanySettings
// @Summary      Update company profile
// @Description  Replaces the company profile used on all subsequently generated documents
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body appsettings.UpdateSettingsRequest true "Company profile"
// @Success      200 {object} APIResponse[appsettings.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/company [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req appsettings.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SettingsRoutes builds the route group for the settings API
func SettingsRoutes(h *SettingsHandler) *router.DomainGroup {
	group := router.NewDomainGroup("settings", "/settings")
	group.GET("/company", h.GetSettings)
	group.PUT("/company", middleware.RequireRoles(auth.RoleAdmin), h.UpdateSettings)
	return group
}
