package document

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/domain/order"
	"github.com/primeapparel/backend/internal/domain/settings"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/primeapparel/backend/internal/infrastructure/rendering"
	"github.com/primeapparel/backend/internal/infrastructure/storage"
)

// =============================================================================
// Mocks
// =============================================================================

type mockDocumentRepo struct {
	mock.Mock
}

func (m *mockDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *mockDocumentRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]document.Document, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *mockDocumentRepo) FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType document.Type) (*document.Document, error) {
	args := m.Called(ctx, orderID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *mockDocumentRepo) FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]document.Document, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *mockDocumentRepo) FindAll(ctx context.Context, filter document.Filter) ([]document.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *mockDocumentRepo) Save(ctx context.Context, doc *document.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockDocumentRepo) Count(ctx context.Context, filter document.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockAllocator struct {
	mock.Mock
}

func (m *mockAllocator) NextNumber(ctx context.Context, docType document.Type) (string, error) {
	args := m.Called(ctx, docType)
	return args.String(0), args.Error(1)
}

type mockPDFRenderer struct {
	mock.Mock
}

func (m *mockPDFRenderer) Render(ctx context.Context, req *rendering.RenderRequest) (*rendering.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rendering.RenderResult), args.Error(1)
}

func (m *mockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) Store(ctx context.Context, req *storage.StoreRequest) (*storage.StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.StoreResult), args.Error(1)
}

func (m *mockFileStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockFileStorage) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockFileStorage) DownloadURL(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, path, expiresIn)
	return args.String(0), args.Error(1)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

type stubCompanyProvider struct{}

func (stubCompanyProvider) Current(ctx context.Context) *settings.CompanySettings {
	return settings.Defaults()
}

// =============================================================================
// Fixtures
// =============================================================================

type serviceFixture struct {
	docRepo     *mockDocumentRepo
	orderRepo   *mockOrderRepo
	allocator   *mockAllocator
	pdf         *mockPDFRenderer
	files       *mockFileStorage
	idempotency *mockIdempotencyStore
	service     *DocumentService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	engine, err := rendering.NewTemplateEngine()
	require.NoError(t, err)

	f := &serviceFixture{
		docRepo:     new(mockDocumentRepo),
		orderRepo:   new(mockOrderRepo),
		allocator:   new(mockAllocator),
		pdf:         new(mockPDFRenderer),
		files:       new(mockFileStorage),
		idempotency: new(mockIdempotencyStore),
	}
	f.service = NewDocumentService(DocumentServiceConfig{
		DocumentRepo: f.docRepo,
		OrderRepo:    f.orderRepo,
		Allocator:    f.allocator,
		Company:      stubCompanyProvider{},
		Trade:        rendering.NewTradeDocumentRenderer(engine),
		PDF:          f.pdf,
		Files:        f.files,
		Idempotency:  f.idempotency,
	})
	return f
}

func newServiceTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), order.BuyerSnapshot{
		Name:    "Lena Fischer",
		Company: "Fischer Trading GmbH",
	}, order.TermFOB)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(order.Item{
		StyleName: "Classic Polo", Quantity: 100, UnitPrice: decimal.NewFromFloat(4.50),
	}))
	return o
}

func (f *serviceFixture) expectRenderAndStore() {
	f.pdf.On("Render", mock.Anything, mock.Anything).
		Return(&rendering.RenderResult{PDFData: []byte("%PDF-1.4"), RenderDuration: 80 * time.Millisecond}, nil)
	f.files.On("Store", mock.Anything, mock.Anything).
		Return(&storage.StoreResult{Path: "documents/file.pdf", URL: "https://files/file.pdf", Size: 8}, nil)
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

// =============================================================================
// GeneratePI
// =============================================================================

func TestDocumentService_GeneratePI(t *testing.T) {
	ctx := context.Background()

	t.Run("first generation allocates a number and records it on the order", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		userID := uuid.New()

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrderAndType", mock.Anything, o.ID, document.TypePI).Return(nil, nil)
		f.allocator.On("NextNumber", mock.Anything, document.TypePI).Return("PAE-2025-001", nil)
		f.expectRenderAndStore()
		f.docRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("Save", mock.Anything, o).Return(nil)

		resp, err := f.service.GeneratePI(ctx, o.ID, userID, GeneratePIRequest{})
		require.NoError(t, err)

		assert.Equal(t, "PAE-2025-001", resp.Number)
		assert.Equal(t, 1, resp.DocVersion)
		assert.Equal(t, "DRAFT", resp.Status)
		require.NotNil(t, o.PINumber)
		assert.Equal(t, "PAE-2025-001", *o.PINumber)
		assert.Equal(t, "https://files/file.pdf", o.Documents.PIURL)
		f.docRepo.AssertExpectations(t)
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("regeneration reuses the number and bumps only the version", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		o.AttachPI("PAE-2025-001", "https://files/pi-v1.pdf")
		userID := uuid.New()

		existing, err := document.New(o.ID, document.TypePI, userID)
		require.NoError(t, err)
		require.NoError(t, existing.AssignNumber("PAE-2025-001"))

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrderAndType", mock.Anything, o.ID, document.TypePI).Return(existing, nil)
		f.expectRenderAndStore()
		f.docRepo.On("Save", mock.Anything, existing).Return(nil)

		resp, err := f.service.GeneratePI(ctx, o.ID, userID, GeneratePIRequest{})
		require.NoError(t, err)

		assert.Equal(t, "PAE-2025-001", resp.Number)
		assert.Equal(t, 2, resp.DocVersion)
		// The order keeps its original PI pointer
		assert.Equal(t, "https://files/pi-v1.pdf", o.Documents.PIURL)
		f.allocator.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

		// Every generate call logs CREATED, regeneration included
		last := existing.LastHistory()
		require.NotNil(t, last)
		assert.Equal(t, document.ActionCreated, last.Action)
	})

	t.Run("missing order yields NOT_FOUND", func(t *testing.T) {
		f := newServiceFixture(t)
		orderID := uuid.New()

		f.orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

		_, err := f.service.GeneratePI(ctx, orderID, uuid.New(), GeneratePIRequest{})
		assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	})

	t.Run("render failure surfaces the renderer's error code", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrderAndType", mock.Anything, o.ID, document.TypePI).Return(nil, nil)
		f.allocator.On("NextNumber", mock.Anything, document.TypePI).Return("PAE-2025-001", nil)
		f.pdf.On("Render", mock.Anything, mock.Anything).
			Return(nil, rendering.NewRenderError(rendering.ErrCodeRenderTimeout, "chrome timed out", nil))

		_, err := f.service.GeneratePI(ctx, o.ID, uuid.New(), GeneratePIRequest{})
		assert.Equal(t, rendering.ErrCodeRenderTimeout, domainCode(t, err))
		f.files.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("duplicate idempotency key is rejected", func(t *testing.T) {
		f := newServiceFixture(t)

		f.idempotency.On("MarkProcessed", mock.Anything, "req-1", mock.Anything).Return(false, nil)

		_, err := f.service.GeneratePI(ctx, uuid.New(), uuid.New(), GeneratePIRequest{IdempotencyKey: "req-1"})
		assert.Equal(t, "DUPLICATE_REQUEST", domainCode(t, err))
		f.orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("idempotency store failure does not block generation", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		f.idempotency.On("MarkProcessed", mock.Anything, "req-2", mock.Anything).
			Return(false, errors.New("redis down"))
		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrderAndType", mock.Anything, o.ID, document.TypePI).Return(nil, nil)
		f.allocator.On("NextNumber", mock.Anything, document.TypePI).Return("PAE-2025-001", nil)
		f.expectRenderAndStore()
		f.docRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("Save", mock.Anything, o).Return(nil)

		_, err := f.service.GeneratePI(ctx, o.ID, uuid.New(), GeneratePIRequest{IdempotencyKey: "req-2"})
		assert.NoError(t, err)
	})

	t.Run("allocator failure aborts before rendering", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrderAndType", mock.Anything, o.ID, document.TypePI).Return(nil, nil)
		f.allocator.On("NextNumber", mock.Anything, document.TypePI).
			Return("", shared.ErrDuplicateNumber)

		_, err := f.service.GeneratePI(ctx, o.ID, uuid.New(), GeneratePIRequest{})
		assert.Error(t, err)
		f.pdf.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// GenerateCI / GeneratePackingList
// =============================================================================

func TestDocumentService_GenerateCI(t *testing.T) {
	ctx := context.Background()

	t.Run("every generation creates a fresh document", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		o.AttachInvoice("https://files/ci-old.pdf")

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.allocator.On("NextNumber", mock.Anything, document.TypeCI).Return("PAE-CI-2025-004", nil)
		f.expectRenderAndStore()
		f.docRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("Save", mock.Anything, o).Return(nil)

		resp, err := f.service.GenerateCI(ctx, o.ID, uuid.New(), GenerateCIRequest{
			AWBNumber:      "AWB-778899",
			FreightCharges: decimal.NewFromInt(150),
			HSNCodes:       []string{"6109"},
		})
		require.NoError(t, err)

		assert.Equal(t, "PAE-CI-2025-004", resp.Number)
		assert.Equal(t, 1, resp.DocVersion)
		// The invoice pointer is replaced each time
		assert.Equal(t, "https://files/file.pdf", o.Documents.InvoiceURL)

		meta, ok := resp.Metadata.(document.CIMetadata)
		require.True(t, ok)
		assert.Equal(t, "AWB-778899", meta.AWBNumber)
	})

	t.Run("negative freight is rejected before allocating", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.service.GenerateCI(ctx, o.ID, uuid.New(), GenerateCIRequest{
			FreightCharges: decimal.NewFromInt(-10),
		})
		assert.Error(t, err)
		f.allocator.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_GeneratePackingList(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	o := newServiceTestOrder(t)

	f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.allocator.On("NextNumber", mock.Anything, document.TypePackingList).Return("PAE-PL-2025-001", nil)
	f.expectRenderAndStore()
	f.docRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("Save", mock.Anything, o).Return(nil)

	resp, err := f.service.GeneratePackingList(ctx, o.ID, uuid.New(), GeneratePackingListRequest{
		Cartons: []CartonDTO{
			{CartonNumber: "CTN-1", Contents: "Polo shirts", Quantity: 60, Weight: decimal.NewFromFloat(14.2)},
			{CartonNumber: "CTN-2", Contents: "Polo shirts", Quantity: 40, Weight: decimal.NewFromFloat(11.8)},
		},
		TotalWeight: decimal.NewFromInt(26),
		TotalCBM:    decimal.NewFromFloat(0.144),
	})
	require.NoError(t, err)

	assert.Equal(t, "PAE-PL-2025-001", resp.Number)
	assert.Equal(t, "https://files/file.pdf", o.Documents.PackingListURL)

	meta, ok := resp.Metadata.(document.PackingListMetadata)
	require.True(t, ok)
	assert.Equal(t, 2, meta.NumberOfCartons)
}

// =============================================================================
// UploadAWB
// =============================================================================

func TestDocumentService_UploadAWB(t *testing.T) {
	ctx := context.Background()

	t.Run("records the waybill and forces the order to SHIPPED", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("Save", mock.Anything, o).Return(nil)

		resp, err := f.service.UploadAWB(ctx, o.ID, uuid.New(), UploadAWBRequest{
			TrackingNumber: "1Z999AA10123456784",
			Courier:        "UPS",
			AWBURL:         "https://courier.example/awb/1Z999",
		})
		require.NoError(t, err)

		// The tracking number is the document number, no allocator involved
		assert.Equal(t, "1Z999AA10123456784", resp.Number)
		assert.Equal(t, "SENT", resp.Status)
		assert.Equal(t, order.StatusShipped, o.Status)
		assert.Equal(t, "https://courier.example/awb/1Z999", o.Documents.AWBURL)
		f.allocator.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything)
		f.pdf.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
		// The shipped event is published and drained after the save
		assert.Empty(t, o.GetDomainEvents())
	})

	t.Run("overrides even a cancelled order", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		o.Status = order.StatusCancelled

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("Save", mock.Anything, o).Return(nil)

		_, err := f.service.UploadAWB(ctx, o.ID, uuid.New(), UploadAWBRequest{
			TrackingNumber: "AWB-1",
		})
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, o.Status)
	})

	t.Run("requires a tracking number", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.service.UploadAWB(ctx, o.ID, uuid.New(), UploadAWBRequest{})
		assert.Error(t, err)
		f.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// UpdateDocumentStatus
// =============================================================================

func TestDocumentService_UpdateDocumentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("transitions and appends an UPDATED history entry", func(t *testing.T) {
		f := newServiceFixture(t)
		doc, err := document.New(uuid.New(), document.TypePI, uuid.New())
		require.NoError(t, err)
		require.NoError(t, doc.AssignNumber("PAE-2025-001"))

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docRepo.On("Save", mock.Anything, doc).Return(nil)

		userID := uuid.New()
		resp, err := f.service.UpdateDocumentStatus(ctx, doc.ID, userID, UpdateStatusRequest{
			Status: "SENT",
			Note:   "mailed to buyer",
		})
		require.NoError(t, err)

		assert.Equal(t, "SENT", resp.Status)
		last := doc.LastHistory()
		require.NotNil(t, last)
		assert.Equal(t, document.ActionUpdated, last.Action)
		assert.Equal(t, "mailed to buyer", last.Note)
	})

	t.Run("illegal transition is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		doc, err := document.New(uuid.New(), document.TypePI, uuid.New())
		require.NoError(t, err)
		doc.Status = document.StatusCancelled

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err = f.service.UpdateDocumentStatus(ctx, doc.ID, uuid.New(), UpdateStatusRequest{Status: "SENT"})
		assert.Equal(t, "INVALID_STATE", domainCode(t, err))
		f.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown status is rejected before loading", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.UpdateDocumentStatus(ctx, uuid.New(), uuid.New(), UpdateStatusRequest{Status: "ARCHIVED"})
		assert.Equal(t, "INVALID_INPUT", domainCode(t, err))
		f.docRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// DownloadDocument
// =============================================================================

func TestDocumentService_DownloadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a time limited URL and records the download", func(t *testing.T) {
		f := newServiceFixture(t)
		doc, err := document.New(uuid.New(), document.TypePI, uuid.New())
		require.NoError(t, err)
		require.NoError(t, doc.AssignNumber("PAE-2025-001"))
		doc.SetFile("documents/pi.pdf")

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.files.On("DownloadURL", mock.Anything, "documents/pi.pdf", mock.Anything).
			Return("https://files/signed/pi.pdf", nil)
		f.docRepo.On("Save", mock.Anything, doc).Return(nil)

		userID := uuid.New()
		resp, err := f.service.DownloadDocument(ctx, doc.ID, userID, false)
		require.NoError(t, err)

		assert.Equal(t, "https://files/signed/pi.pdf", resp.URL)
		assert.Equal(t, "PAE-2025-001.pdf", resp.FileName)
		assert.False(t, resp.ExpiresAt.IsZero())

		last := doc.LastHistory()
		require.NotNil(t, last)
		assert.Equal(t, document.ActionDownloaded, last.Action)
		assert.Equal(t, userID, last.ActorID)
	})

	t.Run("buyer downloading a foreign order's document is forbidden without a trail entry", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		owner := uuid.New()
		o.BuyerID = &owner

		doc, err := document.New(o.ID, document.TypePI, uuid.New())
		require.NoError(t, err)
		doc.SetFile("documents/pi.pdf")

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err = f.service.DownloadDocument(ctx, doc.ID, uuid.New(), true)
		assert.Equal(t, "FORBIDDEN", domainCode(t, err))
		assert.Empty(t, doc.History)
		f.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("buyer downloading their own document succeeds", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		buyer := uuid.New()
		o.BuyerID = &buyer

		doc, err := document.New(o.ID, document.TypePI, uuid.New())
		require.NoError(t, err)
		require.NoError(t, doc.AssignNumber("PAE-2025-001"))
		doc.SetFile("documents/pi.pdf")

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.files.On("DownloadURL", mock.Anything, "documents/pi.pdf", mock.Anything).
			Return("https://files/signed/pi.pdf", nil)
		f.docRepo.On("Save", mock.Anything, doc).Return(nil)

		_, err = f.service.DownloadDocument(ctx, doc.ID, buyer, true)
		assert.NoError(t, err)
	})

	t.Run("awb document returns the courier URL directly", func(t *testing.T) {
		f := newServiceFixture(t)
		meta, err := document.NewAWBMetadata("AWB-1", "DHL", nil, "https://courier.example/awb/AWB-1")
		require.NoError(t, err)
		doc, err := document.NewAWB(uuid.New(), uuid.New(), meta)
		require.NoError(t, err)

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docRepo.On("Save", mock.Anything, doc).Return(nil)

		resp, err := f.service.DownloadDocument(ctx, doc.ID, uuid.New(), false)
		require.NoError(t, err)

		assert.Equal(t, "https://courier.example/awb/AWB-1", resp.URL)
		assert.True(t, resp.ExpiresAt.IsZero())
		f.files.AssertNotCalled(t, "DownloadURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("awb recorded without a courier URL still downloads", func(t *testing.T) {
		f := newServiceFixture(t)
		meta, err := document.NewAWBMetadata("AWB-2", "DHL", nil, "")
		require.NoError(t, err)
		doc, err := document.NewAWB(uuid.New(), uuid.New(), meta)
		require.NoError(t, err)
		require.Empty(t, doc.FilePath)

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docRepo.On("Save", mock.Anything, doc).Return(nil)

		resp, err := f.service.DownloadDocument(ctx, doc.ID, uuid.New(), false)
		require.NoError(t, err)
		assert.Empty(t, resp.URL)
	})

	t.Run("document without a file cannot be downloaded", func(t *testing.T) {
		f := newServiceFixture(t)
		doc, err := document.New(uuid.New(), document.TypePI, uuid.New())
		require.NoError(t, err)

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err = f.service.DownloadDocument(ctx, doc.ID, uuid.New(), false)
		assert.Equal(t, "NO_FILE", domainCode(t, err))
	})
}

// =============================================================================
// Queries
// =============================================================================

func TestDocumentService_GetOrderDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the order's documents", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)

		doc, err := document.New(o.ID, document.TypePI, uuid.New())
		require.NoError(t, err)
		require.NoError(t, doc.AssignNumber("PAE-2025-001"))

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrder", mock.Anything, o.ID).Return([]document.Document{*doc}, nil)

		docs, err := f.service.GetOrderDocuments(ctx, o.ID, uuid.New(), false)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "PAE-2025-001", docs[0].Number)
	})

	t.Run("buyer listing a foreign order is forbidden", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		owner := uuid.New()
		o.BuyerID = &owner

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.service.GetOrderDocuments(ctx, o.ID, uuid.New(), true)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.docRepo.AssertNotCalled(t, "FindByOrder", mock.Anything, mock.Anything)
	})

	t.Run("buyer listing an owned order succeeds", func(t *testing.T) {
		f := newServiceFixture(t)
		o := newServiceTestOrder(t)
		buyerID := uuid.New()
		o.BuyerID = &buyerID

		f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		f.docRepo.On("FindByOrder", mock.Anything, o.ID).Return([]document.Document{}, nil)

		_, err := f.service.GetOrderDocuments(ctx, o.ID, buyerID, true)
		require.NoError(t, err)
	})
}

func TestDocumentService_GetAllDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and filters", func(t *testing.T) {
		f := newServiceFixture(t)

		f.docRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(filter document.Filter) bool {
			return filter.Page == 1 && filter.PageSize == 20 &&
				filter.Type != nil && *filter.Type == document.TypeCI
		})).Return([]document.Document{}, nil)
		f.docRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		page, err := f.service.GetAllDocuments(ctx, ListDocumentsRequest{Type: "CI"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("rejects unknown type filter", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.GetAllDocuments(ctx, ListDocumentsRequest{Type: "RECEIPT"})
		assert.Equal(t, "INVALID_INPUT", domainCode(t, err))
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.GetAllDocuments(ctx, ListDocumentsRequest{Status: "ARCHIVED"})
		assert.Equal(t, "INVALID_INPUT", domainCode(t, err))
	})
}

func TestDocumentService_GetBuyerDocuments(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	buyerID := uuid.New()

	o1 := newServiceTestOrder(t)
	o2 := newServiceTestOrder(t)

	doc, err := document.New(o1.ID, document.TypePI, uuid.New())
	require.NoError(t, err)

	f.orderRepo.On("FindByBuyer", mock.Anything, buyerID).Return([]order.Order{*o1, *o2}, nil)
	f.docRepo.On("FindByOrders", mock.Anything, []uuid.UUID{o1.ID, o2.ID}).
		Return([]document.Document{*doc}, nil)

	docs, err := f.service.GetBuyerDocuments(ctx, buyerID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
