package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/primeapparel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// maxAllocationAttempts bounds the uniqueness probe when legacy rows occupy
// numbers ahead of the counter
const maxAllocationAttempts = 100

// GormNumberAllocator implements document.NumberAllocator on top of a
// per-type, per-year counter table. The counter row is reserved with an
// atomic upsert inside a transaction, so concurrent allocations across
// processes serialize on the row lock instead of racing a read-then-write.
type GormNumberAllocator struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormNumberAllocator creates a new GormNumberAllocator
func NewGormNumberAllocator(db *gorm.DB) *GormNumberAllocator {
	return &GormNumberAllocator{db: db, now: time.Now}
}

// NewGormNumberAllocatorWithClock creates an allocator with a fixed clock
// for deterministic tests
func NewGormNumberAllocatorWithClock(db *gorm.DB, now func() time.Time) *GormNumberAllocator {
	return &GormNumberAllocator{db: db, now: now}
}

// NextNumber atomically reserves the next sequence for the document type in
// the current year and formats it as {prefix}-{year}-{seq}.
func (a *GormNumberAllocator) NextNumber(ctx context.Context, docType document.Type) (string, error) {
	if !docType.IsValid() {
		return "", shared.NewDomainError("INVALID_DOC_TYPE", "Unknown document type: "+docType.String())
	}

	year := a.now().Year()
	var number string

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := a.reserve(tx, docType, year)
		if err != nil {
			return err
		}

		// A value of 1 means the counter row was just created. Seed it from
		// the latest existing document of this type so deployments with
		// pre-counter rows continue their sequence instead of restarting.
		if seq == 1 {
			seeded, err := a.seedFromExisting(tx, docType, year)
			if err != nil {
				return err
			}
			if seeded > 0 {
				seq = seeded + 1
			}
		}

		// Probe for legacy rows sitting ahead of the counter. The counter
		// guarantees no two transactions hold the same seq, so this loop
		// only advances past manually inserted numbers.
		for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
			candidate := document.FormatNumber(docType, year, int(seq))
			var count int64
			if err := tx.Model(&models.DocumentModel{}).
				Where("document_number = ?", candidate).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				number = candidate
				return a.store(tx, docType, year, seq)
			}
			seq++
		}

		return shared.NewDomainError("SEQUENCE_EXHAUSTED",
			fmt.Sprintf("Could not allocate a unique %s number after %d attempts", docType, maxAllocationAttempts))
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// reserve increments the counter row for (docType, year), creating it at 1
// when absent, and returns the reserved value. The touched row stays locked
// until the enclosing transaction commits.
func (a *GormNumberAllocator) reserve(tx *gorm.DB, docType document.Type, year int) (int64, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO document_sequences (doc_type, year, value)
		VALUES (?, ?, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`,
		string(docType), year).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// seedFromExisting derives the starting sequence from the most recently
// created document of the given type in the given year. Returns 0 when no
// such document exists. A document whose trailing segment is not numeric
// fails the allocation outright.
func (a *GormNumberAllocator) seedFromExisting(tx *gorm.DB, docType document.Type, year int) (int64, error) {
	var model models.DocumentModel
	err := tx.
		Where("document_type = ? AND document_number LIKE ?",
			string(docType), fmt.Sprintf("%s-%d-%%", document.NumberPrefix(docType), year)).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	seq, err := document.ParseTrailingSequence(model.DocumentNumber)
	if err != nil {
		return 0, err
	}
	return int64(seq), nil
}

// store persists the final counter value after seeding or probing moved it
func (a *GormNumberAllocator) store(tx *gorm.DB, docType document.Type, year int, value int64) error {
	return tx.Exec(`UPDATE document_sequences SET value = ? WHERE doc_type = ? AND year = ?`,
		value, string(docType), year).Error
}
