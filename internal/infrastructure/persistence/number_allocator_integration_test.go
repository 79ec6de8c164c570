package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/infrastructure/persistence/models"
)

// newAllocatorTestDB spins up a throwaway PostgreSQL container with the
// documents and document_sequences tables
func newAllocatorTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pae_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, db.AutoMigrate(&models.DocumentModel{}, &models.DocumentSequenceModel{}))

	return db
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
}

func insertDocument(t *testing.T, db *gorm.DB, docType document.Type, number string, createdAt time.Time) {
	t.Helper()
	empty, err := json.Marshal([]string{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.DocumentModel{
		ID:             uuid.New(),
		OrderID:        uuid.New(),
		DocumentType:   string(docType),
		DocumentNumber: number,
		DocVersion:     1,
		Status:         string(document.StatusDraft),
		CreatedBy:      uuid.New(),
		Recipients:     empty,
		History:        empty,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		Version:        1,
	}).Error)
}

func TestGormNumberAllocator_SequencesPerTypeAndYear(t *testing.T) {
	db := newAllocatorTestDB(t)
	ctx := context.Background()

	alloc := NewGormNumberAllocatorWithClock(db, fixedClock(2025))

	first, err := alloc.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2025-001", first)

	second, err := alloc.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2025-002", second)

	// Each type advances its own counter
	ci, err := alloc.NextNumber(ctx, document.TypeCI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-CI-2025-001", ci)

	pl, err := alloc.NextNumber(ctx, document.TypePackingList)
	require.NoError(t, err)
	assert.Equal(t, "PAE-PL-2025-001", pl)

	// A new year restarts the sequence without touching the old one
	nextYear := NewGormNumberAllocatorWithClock(db, fixedClock(2026))
	rolled, err := nextYear.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2026-001", rolled)

	third, err := alloc.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2025-003", third)
}

func TestGormNumberAllocator_SeedsFromExistingDocuments(t *testing.T) {
	db := newAllocatorTestDB(t)
	ctx := context.Background()
	clock := fixedClock(2025)

	// Documents issued before the counter table was introduced
	insertDocument(t, db, document.TypePI, "PAE-2025-007", clock())

	alloc := NewGormNumberAllocatorWithClock(db, clock)
	number, err := alloc.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2025-008", number)
}

func TestGormNumberAllocator_SkipsOccupiedNumbers(t *testing.T) {
	db := newAllocatorTestDB(t)
	ctx := context.Background()
	clock := fixedClock(2025)

	alloc := NewGormNumberAllocatorWithClock(db, clock)

	first, err := alloc.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2025-001", first)

	// A manually inserted row occupies the number the counter would hand out next
	insertDocument(t, db, document.TypePI, "PAE-2025-002", clock())

	number, err := alloc.NextNumber(ctx, document.TypePI)
	require.NoError(t, err)
	assert.Equal(t, "PAE-2025-003", number)
}

func TestGormNumberAllocator_ConcurrentAllocationsAreUnique(t *testing.T) {
	db := newAllocatorTestDB(t)
	ctx := context.Background()

	alloc := NewGormNumberAllocatorWithClock(db, fixedClock(2025))

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]bool)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := alloc.NextNumber(ctx, document.TypeCI)
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			assert.False(t, numbers[number], "number %s allocated twice", number)
			numbers[number] = true
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, workers)
}
