package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appdocument "github.com/primeapparel/backend/internal/application/document"
	"github.com/primeapparel/backend/internal/infrastructure/auth"
	"github.com/primeapparel/backend/internal/interfaces/http/middleware"
)

// DocumentHandler handles trade document API endpoints
type DocumentHandler struct {
	BaseHandler
	service *appdocument.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *appdocument.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// GeneratePI godoc
// @ID           generateProformaInvoice
// @Summary      Generate proforma invoice
// @Description  Generates the proforma invoice PDF for an order. The first call allocates the document number; later calls regenerate the PDF under the same number with a bumped version.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        Idempotency-Key header string false "Idempotency key"
// @Success      200 {object} APIResponse[appdocument.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/documents/pi [post]
func (h *DocumentHandler) GeneratePI(c *gin.Context) {
	orderID, userID, ok := h.orderAndUser(c)
	if !ok {
		return
	}

	req := appdocument.GeneratePIRequest{
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
	}

	resp, err := h.service.GeneratePI(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateCI godoc
// @ID           generateCommercialInvoice
// @Summary      Generate commercial invoice
// @Description  Generates a commercial invoice PDF for an order. Each call produces a new document with its own number.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body appdocument.GenerateCIRequest true "Customs inputs"
// @Param        Idempotency-Key header string false "Idempotency key"
// @Success      201 {object} APIResponse[appdocument.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/documents/invoice [post]
func (h *DocumentHandler) GenerateCI(c *gin.Context) {
	orderID, userID, ok := h.orderAndUser(c)
	if !ok {
		return
	}

	var req appdocument.GenerateCIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(middleware.IdempotencyKeyHeader)

	resp, err := h.service.GenerateCI(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GeneratePackingList godoc
// @ID           generatePackingList
// @Summary      Generate packing list
// @Description  Generates a packing list PDF for an order from the carton breakdown. Each call produces a new document with its own number.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body appdocument.GeneratePackingListRequest true "Carton breakdown"
// @Param        Idempotency-Key header string false "Idempotency key"
// @Success      201 {object} APIResponse[appdocument.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/documents/packing-list [post]
func (h *DocumentHandler) GeneratePackingList(c *gin.Context) {
	orderID, userID, ok := h.orderAndUser(c)
	if !ok {
		return
	}

	var req appdocument.GeneratePackingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(middleware.IdempotencyKeyHeader)

	resp, err := h.service.GeneratePackingList(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UploadAWB godoc
// @ID           uploadAirWaybill
// @Summary      Record air waybill
// @Description  Records a courier air waybill against an order. The tracking number becomes the document number and the order moves to SHIPPED.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body appdocument.UploadAWBRequest true "Courier tracking details"
// @Param        Idempotency-Key header string false "Idempotency key"
// @Success      201 {object} APIResponse[appdocument.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/documents/awb [post]
func (h *DocumentHandler) UploadAWB(c *gin.Context) {
	orderID, userID, ok := h.orderAndUser(c)
	if !ok {
		return
	}

	var req appdocument.UploadAWBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(middleware.IdempotencyKeyHeader)

	resp, err := h.service.UploadAWB(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetOrderDocuments godoc
// @ID           getOrderDocuments
// @Summary      List order documents
// @Description  Lists all documents generated for an order, newest first
// @Tags         documents
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[[]appdocument.DocumentResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/documents [get]
func (h *DocumentHandler) GetOrderDocuments(c *gin.Context) {
	orderID, userID, ok := h.orderAndUser(c)
	if !ok {
		return
	}

	buyerOnly := getRole(c) == auth.RoleBuyer
	docs, err := h.service.GetOrderDocuments(c.Request.Context(), orderID, userID, buyerOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// ListDocuments godoc
// @ID           listDocuments
// @Summary      List all documents
// @Description  Lists documents across all orders with optional type and status filters
// @Tags         documents
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        type query string false "Document type filter"
// @Param        status query string false "Document status filter"
// @Success      200 {object} APIResponse[[]appdocument.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req appdocument.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.service.GetAllDocuments(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetMyDocuments godoc
// @ID           getMyDocuments
// @Summary      List the caller's documents
// @Description  Lists the documents of all orders owned by the authenticated buyer
// @Tags         documents
// @Produce      json
// @Success      200 {object} APIResponse[[]appdocument.DocumentResponse]
// @Security     BearerAuth
// @Router       /documents/my [get]
func (h *DocumentHandler) GetMyDocuments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	docs, err := h.service.GetBuyerDocuments(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// DownloadDocument godoc
// @ID           downloadDocument
// @Summary      Download a document
// @Description  Returns a download URL for the document's PDF. Buyers may only download documents of their own orders.
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} APIResponse[appdocument.DownloadResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	buyerOnly := getRole(c) == auth.RoleBuyer
	resp, err := h.service.DownloadDocument(c.Request.Context(), docID, userID, buyerOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateDocumentStatus
// @Summary      Update document status
// @Description  Transitions a document through its lifecycle (DRAFT, SENT, APPROVED, CANCELLED)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        request body appdocument.UpdateStatusRequest true "Target status"
// @Success      200 {object} APIResponse[appdocument.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appdocument.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateDocumentStatus(c.Request.Context(), docID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// orderAndUser parses the order ID path parameter and the authenticated user
func (h *DocumentHandler) orderAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return orderID, userID, true
}
