package settings

import (
	"time"

	"github.com/primeapparel/backend/internal/domain/shared"
)

// BankDetails holds the remittance details printed on invoices
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	SwiftCode     string `json:"swift_code"`
	Branch        string `json:"branch"`
}

// CompanySettings is the seller identity rendered onto every trade document
type CompanySettings struct {
	shared.BaseEntity
	CompanyName   string      `json:"company_name"`
	AddressLine1  string      `json:"address_line1"`
	AddressLine2  string      `json:"address_line2"`
	City          string      `json:"city"`
	Country       string      `json:"country"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email"`
	GSTIN         string      `json:"gstin"`
	IEC           string      `json:"iec"`
	Bank          BankDetails `json:"bank"`
	SignatoryName string      `json:"signatory_name"`
}

// Defaults returns the compiled-in company profile used until an admin
// saves an explicit one
func Defaults() *CompanySettings {
	return &CompanySettings{
		BaseEntity:   shared.NewBaseEntity(),
		CompanyName:  "PRIME APPAREL EXPORTS",
		AddressLine1: "Unit 402, Sagar Tech Plaza, Andheri-Kurla Road",
		AddressLine2: "Sakinaka, Andheri East",
		City:         "Mumbai 400072",
		Country:      "India",
		Phone:        "+91 98200 12345",
		Email:        "exports@primeapparel.in",
		GSTIN:        "27AABCP1234F1Z5",
		IEC:          "0312345678",
		Bank: BankDetails{
			BankName:      "HDFC Bank",
			AccountName:   "Prime Apparel Exports",
			AccountNumber: "50200012345678",
			IFSC:          "HDFC0000123",
			SwiftCode:     "HDFCINBB",
			Branch:        "Andheri East, Mumbai",
		},
		SignatoryName: "Authorized Signatory",
	}
}

// Update applies new values and refreshes the update timestamp
func (s *CompanySettings) Update(updated CompanySettings) error {
	if updated.CompanyName == "" {
		return shared.NewDomainError("INVALID_COMPANY", "Company name is required")
	}
	id, createdAt := s.ID, s.CreatedAt
	*s = updated
	s.ID, s.CreatedAt = id, createdAt
	s.UpdatedAt = time.Now()
	return nil
}
