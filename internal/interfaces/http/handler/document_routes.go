package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primeapparel/backend/internal/infrastructure/auth"
	"github.com/primeapparel/backend/internal/interfaces/http/middleware"
	"github.com/primeapparel/backend/internal/interfaces/http/router"
)

// DocumentRouteConfig carries the middleware applied to document routes
type DocumentRouteConfig struct {
	// GenerationLimiter throttles the endpoints that drive the PDF renderer
	GenerationLimiter gin.HandlerFunc
}

// DocumentRoutes builds the route group for the document API.
// Generation and status endpoints are restricted to back-office roles;
// listing and download are open to any authenticated user, with buyer
// ownership enforced by the service.
func DocumentRoutes(h *DocumentHandler, cfg DocumentRouteConfig) *router.DomainGroup {
	backOffice := middleware.RequireRoles(auth.RoleAdmin, auth.RoleSeller)

	generation := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{backOffice}
		if cfg.GenerationLimiter != nil {
			chain = append(chain, cfg.GenerationLimiter)
		}
		return append(chain, handlers...)
	}

	orders := router.NewDomainGroup("order-documents", "/orders")
	orders.POST("/:id/documents/pi", generation(h.GeneratePI)...)
	orders.POST("/:id/documents/invoice", generation(h.GenerateCI)...)
	orders.POST("/:id/documents/packing-list", generation(h.GeneratePackingList)...)
	orders.POST("/:id/documents/awb", backOffice, h.UploadAWB)
	orders.GET("/:id/documents", backOffice, h.GetOrderDocuments)

	return orders
}

// DocumentQueryRoutes builds the route group for document queries and
// lifecycle operations
func DocumentQueryRoutes(h *DocumentHandler) *router.DomainGroup {
	backOffice := middleware.RequireRoles(auth.RoleAdmin, auth.RoleSeller)

	docs := router.NewDomainGroup("documents", "/documents")
	docs.GET("", middleware.RequireRoles(auth.RoleAdmin), h.ListDocuments)
	docs.GET("/my", middleware.RequireRoles(auth.RoleBuyer), h.GetMyDocuments)
	docs.GET("/:id/download", h.DownloadDocument)
	docs.PATCH("/:id/status", backOffice, h.UpdateStatus)

	return docs
}
