package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultPaymentTerms is applied when an order carries no explicit terms
const DefaultPaymentTerms = "50% Advance, 50% Before Shipment"

// BuyerSnapshot captures the buyer's details at order time.
// It is intentionally independent of the live buyer account.
type BuyerSnapshot struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Item is a single ordered garment style line
type Item struct {
	StyleName     string          `json:"style_name"`
	StyleNumber   string          `json:"style_number"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SizeBreakdown string          `json:"size_breakdown"`
}

// Timeline holds the milestone dates of an order
type Timeline struct {
	PIDate              *time.Time `json:"pi_date,omitempty"`
	AdvanceDate         *time.Time `json:"advance_date,omitempty"`
	ProductionStartDate *time.Time `json:"production_start_date,omitempty"`
	ShipmentDate        *time.Time `json:"shipment_date,omitempty"`
}

// DocumentURLs holds the denormalized pointers to the latest generated
// trade documents for quick access from order views
type DocumentURLs struct {
	PIURL          string `json:"pi_url,omitempty"`
	InvoiceURL     string `json:"invoice_url,omitempty"`
	PackingListURL string `json:"packing_list_url,omitempty"`
	AWBURL         string `json:"awb_url,omitempty"`
}

// Order is the aggregate root for a confirmed export transaction
type Order struct {
	shared.BaseAggregateRoot
	LeadID         uuid.UUID
	BuyerID        *uuid.UUID
	PINumber       *string
	Buyer          BuyerSnapshot
	Items          []Item
	CommercialTerm CommercialTerm
	PaymentTerms   string
	BankDetails    string
	TotalAmount    decimal.Decimal
	Currency       string
	Status         Status
	Timeline       Timeline
	Documents      DocumentURLs
}

// NewOrder creates a new order from a confirmed lead
func NewOrder(leadID uuid.UUID, buyer BuyerSnapshot, term CommercialTerm) (*Order, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD", "Lead ID is required")
	}
	if term == "" {
		term = TermEXW
	}
	if !term.IsValid() {
		return nil, shared.NewDomainError("INVALID_COMMERCIAL_TERM", "Unknown commercial term: "+term.String())
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LeadID:            leadID,
		Buyer:             buyer,
		Items:             make([]Item, 0),
		CommercialTerm:    term,
		PaymentTerms:      DefaultPaymentTerms,
		TotalAmount:       decimal.Zero,
		Currency:          "USD",
		Status:            StatusPIGenerated,
	}, nil
}

// AddItem appends a line item and recalculates the order total
func (o *Order) AddItem(item Item) error {
	if item.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Item unit price cannot be negative")
	}
	if item.TotalPrice.IsZero() {
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	o.Items = append(o.Items, item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	return nil
}

// recalculateTotal sums all line item totals
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
}

// TotalQuantity returns the summed quantity across all line items
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// HasPI reports whether a proforma invoice has already been recorded
func (o *Order) HasPI() bool {
	return o.Documents.PIURL != ""
}

// AttachPI records the first proforma invoice on the order.
// The PI number and URL are set only once; subsequent regenerations of the
// PI document leave the order untouched.
func (o *Order) AttachPI(number, fileURL string) bool {
	if o.HasPI() {
		return false
	}
	now := time.Now()
	o.PINumber = &number
	o.Documents.PIURL = fileURL
	o.Status = StatusPIGenerated
	o.Timeline.PIDate = &now
	o.UpdatedAt = now
	return true
}

// AttachInvoice overwrites the commercial invoice pointer.
// Each CI generation replaces the previous pointer; order status is unchanged.
func (o *Order) AttachInvoice(fileURL string) {
	o.Documents.InvoiceURL = fileURL
	o.UpdatedAt = time.Now()
}

// AttachPackingList overwrites the packing list pointer
func (o *Order) AttachPackingList(fileURL string) {
	o.Documents.PackingListURL = fileURL
	o.UpdatedAt = time.Now()
}

// RecordShipment records an AWB and forces the order to SHIPPED.
// The transition is unconditional, matching the established business rule
// that a recorded shipment supersedes whatever state the order was in.
func (o *Order) RecordShipment(awbURL string) {
	now := time.Now()
	o.Documents.AWBURL = awbURL
	o.Status = StatusShipped
	o.Timeline.ShipmentDate = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderShippedEvent(o.ID, awbURL))
}

// UpdateStatus transitions the order through its normal lifecycle
func (o *Order) UpdateStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+target.String())
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition order from "+o.Status.String()+" to "+target.String())
	}

	now := time.Now()
	switch target {
	case StatusAdvanceReceived:
		o.Timeline.AdvanceDate = &now
	case StatusProduction:
		o.Timeline.ProductionStartDate = &now
	case StatusShipped:
		o.Timeline.ShipmentDate = &now
	}
	o.Status = target
	o.UpdatedAt = now
	return nil
}

// IsOwnedBy reports whether the given buyer account owns this order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.BuyerID != nil && *o.BuyerID == userID
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsShipped returns true if the order has shipped
func (o *Order) IsShipped() bool {
	return o.Status == StatusShipped
}
