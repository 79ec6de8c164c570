package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// HistoryEntry is a single record in a document's append-only audit trail
type HistoryEntry struct {
	Action    HistoryAction `json:"action"`
	ActorID   uuid.UUID     `json:"actor_id"`
	Timestamp time.Time     `json:"timestamp"`
	Note      string        `json:"note,omitempty"`
}

// Document is the aggregate root for one generated trade document.
// Its number is assigned exactly once at creation and never changes,
// even when the document version increments on regeneration.
type Document struct {
	shared.BaseAggregateRoot
	OrderID    uuid.UUID
	Type       Type
	Number     string
	FilePath   string
	DocVersion int
	Status     Status
	Metadata   Metadata
	CreatedBy  uuid.UUID
	Recipients []uuid.UUID
	History    []HistoryEntry
}

// New creates a new document shell in DRAFT status. The number may be empty
// at this point; the sequence allocator assigns it on first save.
func New(orderID uuid.UUID, docType Type, createdBy uuid.UUID) (*Document, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Unknown document type: "+docType.String())
	}

	return &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Type:              docType,
		DocVersion:        1,
		Status:            StatusDraft,
		CreatedBy:         createdBy,
		Recipients:        make([]uuid.UUID, 0),
		History:           make([]HistoryEntry, 0),
	}, nil
}

// NewAWB creates an AWB document. AWB documents bypass the sequence
// allocator: the courier tracking number is the document number, and the
// document is born SENT rather than DRAFT.
func NewAWB(orderID uuid.UUID, createdBy uuid.UUID, meta AWBMetadata) (*Document, error) {
	doc, err := New(orderID, TypeAWB, createdBy)
	if err != nil {
		return nil, err
	}
	doc.Number = meta.TrackingNumber
	doc.FilePath = meta.AWBURL
	doc.Status = StatusSent
	doc.Metadata = meta
	doc.AddDomainEvent(NewGeneratedEvent(doc.ID, doc.OrderID, doc.Type, doc.Number))
	return doc, nil
}

// AssignNumber sets the document number. It may only be called once.
func (d *Document) AssignNumber(number string) error {
	if d.Number != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Document number is already assigned")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	d.Number = number
	d.UpdatedAt = time.Now()
	return nil
}

// SetFile records the stored file reference for this document and raises
// a generated event for the new file
func (d *Document) SetFile(path string) {
	d.FilePath = path
	d.UpdatedAt = time.Now()
	d.AddDomainEvent(NewGeneratedEvent(d.ID, d.OrderID, d.Type, d.Number))
}

// SetMetadata attaches type-specific metadata. The metadata variant must
// match the document type.
func (d *Document) SetMetadata(meta Metadata) error {
	if meta != nil && meta.MetadataType() != d.Type {
		return shared.NewDomainError("METADATA_MISMATCH",
			"Metadata for "+meta.MetadataType().String()+" cannot be attached to a "+d.Type.String()+" document")
	}
	d.Metadata = meta
	d.UpdatedAt = time.Now()
	return nil
}

// Regenerate bumps the document version for a fresh rendering of the same
// document. The number stays fixed.
func (d *Document) Regenerate() {
	d.DocVersion++
	d.UpdatedAt = time.Now()
}

// UpdateStatus transitions the document status
func (d *Document) UpdateStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown document status: "+target.String())
	}
	if target == d.Status {
		return nil
	}
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition document from "+d.Status.String()+" to "+target.String())
	}
	d.Status = target
	d.UpdatedAt = time.Now()
	return nil
}

// AppendHistory adds an entry to the audit trail
func (d *Document) AppendHistory(action HistoryAction, actorID uuid.UUID, note string) error {
	if !action.IsValid() {
		return shared.NewDomainError("INVALID_ACTION", "Unknown history action: "+action.String())
	}
	d.History = append(d.History, HistoryEntry{
		Action:    action,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Note:      note,
	})
	return nil
}

// AddRecipient records an account the document was sent to
func (d *Document) AddRecipient(userID uuid.UUID) {
	for _, r := range d.Recipients {
		if r == userID {
			return
		}
	}
	d.Recipients = append(d.Recipients, userID)
	d.UpdatedAt = time.Now()
}

// LastHistory returns the most recent history entry, or nil when empty
func (d *Document) LastHistory() *HistoryEntry {
	if len(d.History) == 0 {
		return nil
	}
	return &d.History[len(d.History)-1]
}

// IsDraft returns true while the document has not been sent
func (d *Document) IsDraft() bool {
	return d.Status == StatusDraft
}
