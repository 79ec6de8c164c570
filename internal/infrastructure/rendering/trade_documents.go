package rendering

import (
	"time"

	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/domain/order"
	"github.com/primeapparel/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// Template names inside the embedded FS
const (
	templatePI          = "proforma_invoice.html"
	templateCI          = "commercial_invoice.html"
	templatePackingList = "packing_list.html"
)

// CompanyView is the seller block printed at the top of every document
type CompanyView struct {
	Name          string
	AddressLine1  string
	AddressLine2  string
	City          string
	Country       string
	Phone         string
	Email         string
	GSTIN         string
	IEC           string
	SignatoryName string
}

// BankView is the remittance block printed on invoices
type BankView struct {
	BankName      string
	AccountName   string
	AccountNumber string
	IFSC          string
	SwiftCode     string
	Branch        string
}

// BuyerView is the consignee block
type BuyerView struct {
	Name    string
	Company string
	Address string
	Email   string
	Phone   string
}

// LineItemView is one garment style row on an invoice
type LineItemView struct {
	No            int
	StyleName     string
	StyleNumber   string
	SizeBreakdown string
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
}

// InvoiceView is the shared shape of the proforma and commercial invoice
// templates. Totals are summed from the line items at build time rather
// than read from the order, so an order with no items prints a zero total.
type InvoiceView struct {
	Number         string
	Date           time.Time
	Version        int
	Company        CompanyView
	Bank           BankView
	Buyer          BuyerView
	Items          []LineItemView
	TotalQuantity  int
	Subtotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	Currency       string
	CommercialTerm string
	PaymentTerms   string

	// Commercial invoice extras
	AWBNumber      string
	FreightCharges decimal.Decimal
	HasFreight     bool
	HSNCodes       []string
}

// CartonView is one carton row on a packing list
type CartonView struct {
	No           int
	CartonNumber string
	Contents     string
	Quantity     int
	Weight       decimal.Decimal
	Dimensions   string
}

// PackingListView is the data bound to the packing list template
type PackingListView struct {
	Number          string
	Date            time.Time
	Version         int
	Company         CompanyView
	Buyer           BuyerView
	OrderReference  string
	Cartons         []CartonView
	NumberOfCartons int
	TotalQuantity   int
	TotalWeight     decimal.Decimal
	TotalCBM        decimal.Decimal
}

// TradeDocumentRenderer builds the HTML for each trade document type from
// the order, the company profile and the document metadata.
type TradeDocumentRenderer struct {
	engine *TemplateEngine
	now    func() time.Time
}

// NewTradeDocumentRenderer creates a renderer using the system clock
func NewTradeDocumentRenderer(engine *TemplateEngine) *TradeDocumentRenderer {
	return &TradeDocumentRenderer{engine: engine, now: time.Now}
}

// NewTradeDocumentRendererWithClock creates a renderer with a fixed clock
// for deterministic output in tests
func NewTradeDocumentRendererWithClock(engine *TemplateEngine, now func() time.Time) *TradeDocumentRenderer {
	return &TradeDocumentRenderer{engine: engine, now: now}
}

// RenderPI renders the proforma invoice HTML
func (r *TradeDocumentRenderer) RenderPI(o *order.Order, company *settings.CompanySettings, number string, version int) (string, error) {
	view := r.buildInvoiceView(o, company, number, version)
	return r.engine.Render(templatePI, view)
}

// RenderCI renders the commercial invoice HTML. When freight charges are
// present the grand total is the order total plus freight; otherwise it
// matches the order total.
func (r *TradeDocumentRenderer) RenderCI(o *order.Order, company *settings.CompanySettings, number string, version int, meta document.CIMetadata) (string, error) {
	view := r.buildInvoiceView(o, company, number, version)
	view.AWBNumber = meta.AWBNumber
	view.HSNCodes = meta.HSNCodes
	if meta.FreightCharges.IsPositive() {
		view.FreightCharges = meta.FreightCharges
		view.HasFreight = true
		view.GrandTotal = o.TotalAmount.Add(meta.FreightCharges)
	} else {
		view.GrandTotal = o.TotalAmount
	}
	return r.engine.Render(templateCI, view)
}

// RenderPackingList renders the packing list HTML
func (r *TradeDocumentRenderer) RenderPackingList(o *order.Order, company *settings.CompanySettings, number string, version int, meta document.PackingListMetadata) (string, error) {
	cartons := make([]CartonView, len(meta.CartonDetails))
	totalQuantity := 0
	for i, c := range meta.CartonDetails {
		cartons[i] = CartonView{
			No:           i + 1,
			CartonNumber: c.CartonNumber,
			Contents:     c.Contents,
			Quantity:     c.Quantity,
			Weight:       c.Weight,
			Dimensions:   c.Dimensions,
		}
		totalQuantity += c.Quantity
	}

	orderRef := ""
	if o.PINumber != nil {
		orderRef = *o.PINumber
	}

	view := PackingListView{
		Number:          number,
		Date:            r.now(),
		Version:         version,
		Company:         buildCompanyView(company),
		Buyer:           buildBuyerView(o),
		OrderReference:  orderRef,
		Cartons:         cartons,
		NumberOfCartons: meta.NumberOfCartons,
		TotalQuantity:   totalQuantity,
		TotalWeight:     meta.TotalWeight,
		TotalCBM:        meta.TotalCBM,
	}
	return r.engine.Render(templatePackingList, view)
}

// buildInvoiceView assembles the fields shared by both invoice templates.
// Quantities and amounts are summed from the line items.
func (r *TradeDocumentRenderer) buildInvoiceView(o *order.Order, company *settings.CompanySettings, number string, version int) InvoiceView {
	items := make([]LineItemView, len(o.Items))
	totalQuantity := 0
	subtotal := decimal.Zero
	for i, item := range o.Items {
		items[i] = LineItemView{
			No:            i + 1,
			StyleName:     item.StyleName,
			StyleNumber:   item.StyleNumber,
			SizeBreakdown: item.SizeBreakdown,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Total:         item.TotalPrice,
		}
		totalQuantity += item.Quantity
		subtotal = subtotal.Add(item.TotalPrice)
	}

	return InvoiceView{
		Number:         number,
		Date:           r.now(),
		Version:        version,
		Company:        buildCompanyView(company),
		Bank:           buildBankView(company),
		Buyer:          buildBuyerView(o),
		Items:          items,
		TotalQuantity:  totalQuantity,
		Subtotal:       subtotal,
		GrandTotal:     subtotal,
		Currency:       o.Currency,
		CommercialTerm: o.CommercialTerm.String(),
		PaymentTerms:   o.PaymentTerms,
	}
}

func buildCompanyView(company *settings.CompanySettings) CompanyView {
	if company == nil {
		company = settings.Defaults()
	}
	return CompanyView{
		Name:          company.CompanyName,
		AddressLine1:  company.AddressLine1,
		AddressLine2:  company.AddressLine2,
		City:          company.City,
		Country:       company.Country,
		Phone:         company.Phone,
		Email:         company.Email,
		GSTIN:         company.GSTIN,
		IEC:           company.IEC,
		SignatoryName: company.SignatoryName,
	}
}

func buildBankView(company *settings.CompanySettings) BankView {
	if company == nil {
		company = settings.Defaults()
	}
	return BankView{
		BankName:      company.Bank.BankName,
		AccountName:   company.Bank.AccountName,
		AccountNumber: company.Bank.AccountNumber,
		IFSC:          company.Bank.IFSC,
		SwiftCode:     company.Bank.SwiftCode,
		Branch:        company.Bank.Branch,
	}
}

func buildBuyerView(o *order.Order) BuyerView {
	return BuyerView{
		Name:    o.Buyer.Name,
		Company: o.Buyer.Company,
		Address: o.Buyer.Address,
		Email:   o.Buyer.Email,
		Phone:   o.Buyer.Phone,
	}
}
