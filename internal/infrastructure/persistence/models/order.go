package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/order"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderModel is the GORM model for the orders table
type OrderModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key"`
	LeadID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID             *uuid.UUID      `gorm:"type:uuid;index"`
	PINumber            *string         `gorm:"column:pi_number;type:varchar(50);uniqueIndex"`
	BuyerName           string          `gorm:"column:buyer_name;type:varchar(255)"`
	BuyerCompany        string          `gorm:"column:buyer_company;type:varchar(255)"`
	BuyerAddress        string          `gorm:"column:buyer_address;type:text"`
	BuyerEmail          string          `gorm:"column:buyer_email;type:varchar(255)"`
	BuyerPhone          string          `gorm:"column:buyer_phone;type:varchar(50)"`
	Items               []byte          `gorm:"type:jsonb;not null;default:'[]'"`
	CommercialTerm      string          `gorm:"column:commercial_term;type:varchar(20);not null;default:'EXW'"`
	PaymentTerms        string          `gorm:"column:payment_terms;type:text"`
	BankDetails         string          `gorm:"column:bank_details;type:text"`
	TotalAmount         decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null;default:0"`
	Currency            string          `gorm:"type:varchar(10);not null;default:'USD'"`
	Status              string          `gorm:"type:varchar(30);not null;index"`
	PIDate              *time.Time      `gorm:"column:pi_date"`
	AdvanceDate         *time.Time      `gorm:"column:advance_date"`
	ProductionStartDate *time.Time      `gorm:"column:production_start_date"`
	ShipmentDate        *time.Time      `gorm:"column:shipment_date"`
	PIURL               string          `gorm:"column:pi_url;type:text"`
	InvoiceURL          string          `gorm:"column:invoice_url;type:text"`
	PackingListURL      string          `gorm:"column:packing_list_url;type:text"`
	AWBURL              string          `gorm:"column:awb_url;type:text"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
	Version             int             `gorm:"not null;default:1"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts OrderModel to a domain Order
func (m *OrderModel) ToDomain() (*order.Order, error) {
	var items []order.Item
	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &items); err != nil {
			return nil, err
		}
	}

	return &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		LeadID:   m.LeadID,
		BuyerID:  m.BuyerID,
		PINumber: m.PINumber,
		Buyer: order.BuyerSnapshot{
			Name:    m.BuyerName,
			Company: m.BuyerCompany,
			Address: m.BuyerAddress,
			Email:   m.BuyerEmail,
			Phone:   m.BuyerPhone,
		},
		Items:          items,
		CommercialTerm: order.CommercialTerm(m.CommercialTerm),
		PaymentTerms:   m.PaymentTerms,
		BankDetails:    m.BankDetails,
		TotalAmount:    m.TotalAmount,
		Currency:       m.Currency,
		Status:         order.Status(m.Status),
		Timeline: order.Timeline{
			PIDate:              m.PIDate,
			AdvanceDate:         m.AdvanceDate,
			ProductionStartDate: m.ProductionStartDate,
			ShipmentDate:        m.ShipmentDate,
		},
		Documents: order.DocumentURLs{
			PIURL:          m.PIURL,
			InvoiceURL:     m.InvoiceURL,
			PackingListURL: m.PackingListURL,
			AWBURL:         m.AWBURL,
		},
	}, nil
}

// OrderModelFromDomain creates an OrderModel from a domain Order
func OrderModelFromDomain(o *order.Order) (*OrderModel, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}

	return &OrderModel{
		ID:                  o.ID,
		LeadID:              o.LeadID,
		BuyerID:             o.BuyerID,
		PINumber:            o.PINumber,
		BuyerName:           o.Buyer.Name,
		BuyerCompany:        o.Buyer.Company,
		BuyerAddress:        o.Buyer.Address,
		BuyerEmail:          o.Buyer.Email,
		BuyerPhone:          o.Buyer.Phone,
		Items:               items,
		CommercialTerm:      string(o.CommercialTerm),
		PaymentTerms:        o.PaymentTerms,
		BankDetails:         o.BankDetails,
		TotalAmount:         o.TotalAmount,
		Currency:            o.Currency,
		Status:              string(o.Status),
		PIDate:              o.Timeline.PIDate,
		AdvanceDate:         o.Timeline.AdvanceDate,
		ProductionStartDate: o.Timeline.ProductionStartDate,
		ShipmentDate:        o.Timeline.ShipmentDate,
		PIURL:               o.Documents.PIURL,
		InvoiceURL:          o.Documents.InvoiceURL,
		PackingListURL:      o.Documents.PackingListURL,
		AWBURL:              o.Documents.AWBURL,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		Version:             o.Version,
	}, nil
}
