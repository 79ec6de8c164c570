package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/primeapparel/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// SettingsService manages the single company profile rendered onto trade
// documents. Reads are served from an in-process cache; updates write
// through and invalidate it.
type SettingsService struct {
	repo   settings.Repository
	logger *zap.Logger

	mu     sync.RWMutex
	cached *settings.CompanySettings
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.Repository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// Current returns the company profile to print on documents. When no
// profile has been saved yet it falls back to the compiled-in defaults,
// so rendering never blocks on settings being configured.
func (s *SettingsService) Current(ctx context.Context) *settings.CompanySettings {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	stored, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Warn("failed to load company settings, using defaults", zap.Error(err))
		return settings.Defaults()
	}
	if stored == nil {
		return settings.Defaults()
	}

	s.mu.Lock()
	s.cached = stored
	s.mu.Unlock()
	return stored
}

// GetSettings returns the effective company profile
func (s *SettingsService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}

	if stored == nil {
		resp := toSettingsResponse(settings.Defaults())
		resp.IsDefault = true
		return resp, nil
	}
	return toSettingsResponse(stored), nil
}

// UpdateSettings replaces the company profile and invalidates the cache
func (s *SettingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}
	if stored == nil {
		stored = settings.Defaults()
	}

	updated := *stored
	updated.CompanyName = req.CompanyName
	updated.AddressLine1 = req.AddressLine1
	updated.AddressLine2 = req.AddressLine2
	updated.City = req.City
	updated.Country = req.Country
	updated.Phone = req.Phone
	updated.Email = req.Email
	updated.GSTIN = req.GSTIN
	updated.IEC = req.IEC
	updated.Bank = settings.BankDetails{
		BankName:      req.Bank.BankName,
		AccountName:   req.Bank.AccountName,
		AccountNumber: req.Bank.AccountNumber,
		IFSC:          req.Bank.IFSC,
		SwiftCode:     req.Bank.SwiftCode,
		Branch:        req.Bank.Branch,
	}
	updated.SignatoryName = req.SignatoryName

	if err := stored.Update(updated); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save company settings: %w", err)
	}

	s.mu.Lock()
	s.cached = stored
	s.mu.Unlock()

	s.logger.Info("company settings updated",
		zap.String("company", stored.CompanyName))

	return toSettingsResponse(stored), nil
}

func toSettingsResponse(cs *settings.CompanySettings) *SettingsResponse {
	return &SettingsResponse{
		CompanyName:  cs.CompanyName,
		AddressLine1: cs.AddressLine1,
		AddressLine2: cs.AddressLine2,
		City:         cs.City,
		Country:      cs.Country,
		Phone:        cs.Phone,
		Email:        cs.Email,
		GSTIN:        cs.GSTIN,
		IEC:          cs.IEC,
		Bank: BankDetailsDTO{
			BankName:      cs.Bank.BankName,
			AccountName:   cs.Bank.AccountName,
			AccountNumber: cs.Bank.AccountNumber,
			IFSC:          cs.Bank.IFSC,
			SwiftCode:     cs.Bank.SwiftCode,
			Branch:        cs.Bank.Branch,
		},
		SignatoryName: cs.SignatoryName,
		UpdatedAt:     cs.UpdatedAt,
	}
}
