package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/settings"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// CompanySettingsModel is the GORM model for the company_settings table
type CompanySettingsModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyName       string    `gorm:"column:company_name;type:varchar(255);not null"`
	AddressLine1      string    `gorm:"column:address_line1;type:varchar(255)"`
	AddressLine2      string    `gorm:"column:address_line2;type:varchar(255)"`
	City              string    `gorm:"type:varchar(100)"`
	Country           string    `gorm:"type:varchar(100)"`
	Phone             string    `gorm:"type:varchar(50)"`
	Email             string    `gorm:"type:varchar(255)"`
	GSTIN             string    `gorm:"type:varchar(30)"`
	IEC               string    `gorm:"type:varchar(30)"`
	BankName          string    `gorm:"column:bank_name;type:varchar(255)"`
	BankAccountName   string    `gorm:"column:bank_account_name;type:varchar(255)"`
	BankAccountNumber string    `gorm:"column:bank_account_number;type:varchar(50)"`
	BankIFSC          string    `gorm:"column:bank_ifsc;type:varchar(20)"`
	BankSwiftCode     string    `gorm:"column:bank_swift_code;type:varchar(20)"`
	BankBranch        string    `gorm:"column:bank_branch;type:varchar(255)"`
	SignatoryName     string    `gorm:"column:signatory_name;type:varchar(255)"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for CompanySettingsModel
func (CompanySettingsModel) TableName() string {
	return "company_settings"
}

// ToDomain converts CompanySettingsModel to domain CompanySettings
func (m *CompanySettingsModel) ToDomain() *settings.CompanySettings {
	return &settings.CompanySettings{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CompanyName:  m.CompanyName,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		City:         m.City,
		Country:      m.Country,
		Phone:        m.Phone,
		Email:        m.Email,
		GSTIN:        m.GSTIN,
		IEC:          m.IEC,
		Bank: settings.BankDetails{
			BankName:      m.BankName,
			AccountName:   m.BankAccountName,
			AccountNumber: m.BankAccountNumber,
			IFSC:          m.BankIFSC,
			SwiftCode:     m.BankSwiftCode,
			Branch:        m.BankBranch,
		},
		SignatoryName: m.SignatoryName,
	}
}

// CompanySettingsModelFromDomain creates a model from domain settings
func CompanySettingsModelFromDomain(s *settings.CompanySettings) *CompanySettingsModel {
	return &CompanySettingsModel{
		ID:                s.ID,
		CompanyName:       s.CompanyName,
		AddressLine1:      s.AddressLine1,
		AddressLine2:      s.AddressLine2,
		City:              s.City,
		Country:           s.Country,
		Phone:             s.Phone,
		Email:             s.Email,
		GSTIN:             s.GSTIN,
		IEC:               s.IEC,
		BankName:          s.Bank.BankName,
		BankAccountName:   s.Bank.AccountName,
		BankAccountNumber: s.Bank.AccountNumber,
		BankIFSC:          s.Bank.IFSC,
		BankSwiftCode:     s.Bank.SwiftCode,
		BankBranch:        s.Bank.Branch,
		SignatoryName:     s.SignatoryName,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
