package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), BuyerSnapshot{
		Name:    "Ravi Mehta",
		Company: "Northwind Imports",
		Address: "12 Harbor Road, Rotterdam",
		Email:   "ravi@northwind.example",
	}, TermFOB)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates order with defaults", func(t *testing.T) {
		o := newTestOrder(t)

		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Equal(t, StatusPIGenerated, o.Status)
		assert.Equal(t, TermFOB, o.CommercialTerm)
		assert.Equal(t, DefaultPaymentTerms, o.PaymentTerms)
		assert.Equal(t, "USD", o.Currency)
		assert.True(t, o.TotalAmount.IsZero())
		assert.Empty(t, o.Items)
	})

	t.Run("defaults empty term to EXW", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), BuyerSnapshot{}, "")
		require.NoError(t, err)
		assert.Equal(t, TermEXW, o.CommercialTerm)
	})

	t.Run("rejects nil lead id", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, BuyerSnapshot{}, TermFOB)
		assert.Error(t, err)
	})

	t.Run("rejects unknown term", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), BuyerSnapshot{}, CommercialTerm("CNF"))
		assert.Error(t, err)
	})
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("recalculates total", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AddItem(Item{
			StyleName: "Classic Polo", StyleNumber: "ST-100",
			Quantity: 100, UnitPrice: decimal.NewFromFloat(4.50),
		}))
		require.NoError(t, o.AddItem(Item{
			StyleName: "Crew Tee", StyleNumber: "ST-101",
			Quantity: 200, UnitPrice: decimal.NewFromFloat(2.25),
		}))

		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(900)), "got %s", o.TotalAmount)
		assert.Equal(t, 300, o.TotalQuantity())
	})

	t.Run("keeps explicit line total", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AddItem(Item{
			StyleName: "Sample Set", Quantity: 10,
			UnitPrice:  decimal.NewFromInt(5),
			TotalPrice: decimal.NewFromInt(40),
		}))

		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(40)))
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.AddItem(Item{Quantity: 0, UnitPrice: decimal.NewFromInt(1)}))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.AddItem(Item{Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}))
	})
}

func TestOrder_AttachPI(t *testing.T) {
	o := newTestOrder(t)

	attached := o.AttachPI("PAE-2025-001", "https://files/pi.pdf")
	assert.True(t, attached)
	require.NotNil(t, o.PINumber)
	assert.Equal(t, "PAE-2025-001", *o.PINumber)
	assert.Equal(t, "https://files/pi.pdf", o.Documents.PIURL)
	assert.NotNil(t, o.Timeline.PIDate)

	// Regenerations leave the original number and URL in place
	attached = o.AttachPI("PAE-2025-002", "https://files/pi-v2.pdf")
	assert.False(t, attached)
	assert.Equal(t, "PAE-2025-001", *o.PINumber)
	assert.Equal(t, "https://files/pi.pdf", o.Documents.PIURL)
}

func TestOrder_AttachInvoice(t *testing.T) {
	o := newTestOrder(t)

	o.AttachInvoice("https://files/ci-v1.pdf")
	o.AttachInvoice("https://files/ci-v2.pdf")

	// Invoice pointer is replaced on every generation
	assert.Equal(t, "https://files/ci-v2.pdf", o.Documents.InvoiceURL)
	assert.Equal(t, StatusPIGenerated, o.Status)
}

func TestOrder_RecordShipment(t *testing.T) {
	t.Run("forces shipped from any status", func(t *testing.T) {
		for _, from := range []Status{StatusPIGenerated, StatusProduction, StatusDelivered, StatusCancelled} {
			o := newTestOrder(t)
			o.Status = from

			o.RecordShipment("https://files/awb.pdf")

			assert.Equal(t, StatusShipped, o.Status, "from %s", from)
			assert.Equal(t, "https://files/awb.pdf", o.Documents.AWBURL)
			assert.NotNil(t, o.Timeline.ShipmentDate)
		}
	})

	t.Run("raises shipped event", func(t *testing.T) {
		o := newTestOrder(t)
		o.RecordShipment("https://files/awb.pdf")

		assert.NotEmpty(t, o.GetDomainEvents())
	})
}

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("walks the normal lifecycle", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.UpdateStatus(StatusAdvanceReceived))
		assert.NotNil(t, o.Timeline.AdvanceDate)

		require.NoError(t, o.UpdateStatus(StatusProduction))
		assert.NotNil(t, o.Timeline.ProductionStartDate)

		require.NoError(t, o.UpdateStatus(StatusQCPassed))
		require.NoError(t, o.UpdateStatus(StatusShipped))
		assert.NotNil(t, o.Timeline.ShipmentDate)

		require.NoError(t, o.UpdateStatus(StatusDelivered))
		assert.True(t, o.Status.IsTerminal())
	})

	t.Run("rejects skipping stages", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.UpdateStatus(StatusShipped))
	})

	t.Run("rejects leaving a terminal status", func(t *testing.T) {
		o := newTestOrder(t)
		o.Status = StatusCancelled
		assert.Error(t, o.UpdateStatus(StatusProduction))
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPIGenerated, StatusAdvanceReceived, true},
		{StatusPIGenerated, StatusCancelled, true},
		{StatusPIGenerated, StatusProduction, false},
		{StatusQCPassed, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPIGenerated, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+" to "+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_IsOwnedBy(t *testing.T) {
	o := newTestOrder(t)
	buyer := uuid.New()

	assert.False(t, o.IsOwnedBy(buyer), "order without a linked buyer account is owned by nobody")

	o.BuyerID = &buyer
	assert.True(t, o.IsOwnedBy(buyer))
	assert.False(t, o.IsOwnedBy(uuid.New()))
}
