package document

import (
	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// EventDocumentGenerated is raised when a document file has been produced
const EventDocumentGenerated = "document.generated"

// GeneratedEvent is raised when a document file has been produced and saved
type GeneratedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	DocType Type      `json:"doc_type"`
	Number  string    `json:"number"`
}

// NewGeneratedEvent creates a new document generated event
func NewGeneratedEvent(docID, orderID uuid.UUID, docType Type, number string) *GeneratedEvent {
	return &GeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentGenerated, "Document", docID),
		OrderID:         orderID,
		DocType:         docType,
		Number:          number,
	}
}
