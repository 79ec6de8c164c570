package document

import (
	"time"

	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Generation DTOs
// =============================================================================

// GeneratePIRequest represents a request to generate a proforma invoice.
// Regeneration needs no inputs; everything comes from the order.
type GeneratePIRequest struct {
	IdempotencyKey string `json:"-"`
}

// GenerateCIRequest represents a request to generate a commercial invoice
type GenerateCIRequest struct {
	AWBNumber      string          `json:"awb_number"`
	FreightCharges decimal.Decimal `json:"freight_charges"`
	HSNCodes       []string        `json:"hsn_codes"`
	IdempotencyKey string          `json:"-"`
}

// CartonDTO represents one carton row of a packing list
type CartonDTO struct {
	CartonNumber string          `json:"carton_number" binding:"required"`
	Contents     string          `json:"contents"`
	Quantity     int             `json:"quantity" binding:"min=0"`
	Weight       decimal.Decimal `json:"weight"`
	Dimensions   string          `json:"dimensions"`
}

// GeneratePackingListRequest represents a request to generate a packing list
type GeneratePackingListRequest struct {
	Cartons        []CartonDTO     `json:"cartons" binding:"required,min=1"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
	TotalCBM       decimal.Decimal `json:"total_cbm"`
	IdempotencyKey string          `json:"-"`
}

// UploadAWBRequest represents a request to record a courier air waybill
type UploadAWBRequest struct {
	TrackingNumber    string     `json:"tracking_number" binding:"required"`
	Courier           string     `json:"courier"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	AWBURL            string     `json:"awb_url"`
	IdempotencyKey    string     `json:"-"`
}

// UpdateStatusRequest represents a request to transition a document's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// ListDocumentsRequest represents a request to list documents
type ListDocumentsRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Type     string `form:"type"`
	Status   string `form:"status"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// HistoryEntryResponse represents one audit trail entry
type HistoryEntryResponse struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// DocumentResponse represents a document
type DocumentResponse struct {
	ID         string                 `json:"id"`
	OrderID    string                 `json:"order_id"`
	Type       string                 `json:"type"`
	Number     string                 `json:"number"`
	FileURL    string                 `json:"file_url,omitempty"`
	DocVersion int                    `json:"doc_version"`
	Status     string                 `json:"status"`
	Metadata   document.Metadata      `json:"metadata,omitempty"`
	CreatedBy  string                 `json:"created_by"`
	History    []HistoryEntryResponse `json:"history,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// DownloadResponse carries the URL a client fetches the document file from
type DownloadResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func toDocumentResponse(d *document.Document) *DocumentResponse {
	history := make([]HistoryEntryResponse, len(d.History))
	for i, h := range d.History {
		history[i] = HistoryEntryResponse{
			Action:    h.Action.String(),
			ActorID:   h.ActorID.String(),
			Timestamp: h.Timestamp,
			Note:      h.Note,
		}
	}

	return &DocumentResponse{
		ID:         d.ID.String(),
		OrderID:    d.OrderID.String(),
		Type:       d.Type.String(),
		Number:     d.Number,
		FileURL:    d.FilePath,
		DocVersion: d.DocVersion,
		Status:     d.Status.String(),
		Metadata:   d.Metadata,
		CreatedBy:  d.CreatedBy.String(),
		History:    history,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
