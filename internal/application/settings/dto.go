package settings

import "time"

// BankDetailsDTO represents the remittance block of the company profile
type BankDetailsDTO struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	IFSC          string `json:"ifsc"`
	SwiftCode     string `json:"swift_code"`
	Branch        string `json:"branch"`
}

// UpdateSettingsRequest represents a request to replace the company profile
type UpdateSettingsRequest struct {
	CompanyName   string         `json:"company_name" binding:"required,min=1,max=200"`
	AddressLine1  string         `json:"address_line1" binding:"required"`
	AddressLine2  string         `json:"address_line2"`
	City          string         `json:"city" binding:"required"`
	Country       string         `json:"country" binding:"required"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email" binding:"omitempty,email"`
	GSTIN         string         `json:"gstin"`
	IEC           string         `json:"iec"`
	Bank          BankDetailsDTO `json:"bank" binding:"required"`
	SignatoryName string         `json:"signatory_name"`
}

// SettingsResponse represents the company profile
type SettingsResponse struct {
	CompanyName   string         `json:"company_name"`
	AddressLine1  string         `json:"address_line1"`
	AddressLine2  string         `json:"address_line2"`
	City          string         `json:"city"`
	Country       string         `json:"country"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email"`
	GSTIN         string         `json:"gstin"`
	IEC           string         `json:"iec"`
	Bank          BankDetailsDTO `json:"bank"`
	SignatoryName string         `json:"signatory_name"`
	IsDefault     bool           `json:"is_default"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
