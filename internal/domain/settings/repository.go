package settings

import "context"

// Repository defines the interface for company settings persistence.
// A deployment stores at most one settings row.
type Repository interface {
	// Get returns the stored settings, or nil when none have been saved
	Get(ctx context.Context) (*CompanySettings, error)

	// Save inserts or updates the settings row
	Save(ctx context.Context, s *CompanySettings) error
}
