package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/domain/order"
	"github.com/primeapparel/backend/internal/domain/settings"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/primeapparel/backend/internal/infrastructure/rendering"
	"github.com/primeapparel/backend/internal/infrastructure/storage"
	"github.com/primeapparel/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// serviceName is the span prefix for document operations
const serviceName = "document"

// defaultDownloadExpiry bounds presigned download URLs
const defaultDownloadExpiry = 15 * time.Minute

// CompanyProvider supplies the company profile printed on documents
type CompanyProvider interface {
	Current(ctx context.Context) *settings.CompanySettings
}

// DocumentServiceConfig wires the collaborators of the document service
type DocumentServiceConfig struct {
	DocumentRepo document.Repository
	OrderRepo    order.Repository
	Allocator    document.NumberAllocator
	Company      CompanyProvider
	Trade        *rendering.TradeDocumentRenderer
	PDF          rendering.PDFRenderer
	Files        storage.FileStorage

	// Idempotency is optional; when nil generation requests are not deduplicated
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration

	// Metrics is optional
	Metrics *telemetry.DocumentMetrics

	DownloadExpiry time.Duration
	Logger         *zap.Logger
}

// DocumentService orchestrates the trade document lifecycle: numbering,
// rendering, storage, status transitions and the audit trail.
type DocumentService struct {
	docRepo        document.Repository
	orderRepo      order.Repository
	allocator      document.NumberAllocator
	company        CompanyProvider
	trade          *rendering.TradeDocumentRenderer
	pdf            rendering.PDFRenderer
	files          storage.FileStorage
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	metrics        *telemetry.DocumentMetrics
	downloadExpiry time.Duration
	logger         *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) *DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	expiry := cfg.DownloadExpiry
	if expiry <= 0 {
		expiry = defaultDownloadExpiry
	}
	return &DocumentService{
		docRepo:        cfg.DocumentRepo,
		orderRepo:      cfg.OrderRepo,
		allocator:      cfg.Allocator,
		company:        cfg.Company,
		trade:          cfg.Trade,
		pdf:            cfg.PDF,
		files:          cfg.Files,
		idempotency:    cfg.Idempotency,
		idempotencyTTL: ttl,
		metrics:        cfg.Metrics,
		downloadExpiry: expiry,
		logger:         logger,
	}
}

// =============================================================================
// Generation Operations
// =============================================================================

// GeneratePI generates or regenerates the proforma invoice for an order.
// The first call creates the document and allocates its number; subsequent
// calls reuse the same document and number, bumping only the version.
// The order records the PI number and URL once and keeps them thereafter.
func (s *DocumentService) GeneratePI(ctx context.Context, orderID, userID uuid.UUID, req GeneratePIRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "generate_pi",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc, err := s.docRepo.FindByOrderAndType(ctx, orderID, document.TypePI)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to look up existing proforma invoice: %w", err)
	}

	if doc != nil {
		doc.Regenerate()
	} else {
		doc, err = document.New(orderID, document.TypePI, userID)
		if err != nil {
			return nil, err
		}
		number, err := s.allocator.NextNumber(ctx, document.TypePI)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if err := doc.AssignNumber(number); err != nil {
			return nil, err
		}
		telemetry.AddEvent(span, "number_allocated",
			telemetry.SpanAttrDocumentNumber, number)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, doc.Number,
		telemetry.SpanAttrDocVersion, doc.DocVersion)

	html, err := s.trade.RenderPI(o, s.company.Current(ctx), doc.Number, doc.DocVersion)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to build proforma invoice: %w", err)
	}

	stored, err := s.renderAndStore(ctx, doc, html, "Proforma Invoice "+doc.Number)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc.SetFile(stored.Path)
	if err := doc.AppendHistory(document.ActionCreated, userID, ""); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.drainEvents(doc)

	if o.AttachPI(doc.Number, stored.URL) {
		if err := s.orderRepo.Save(ctx, o); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to record proforma invoice on order: %w", err)
		}
	}

	s.recordGenerated(ctx, document.TypePI)
	s.logger.Info("proforma invoice generated",
		zap.String("orderId", orderID.String()),
		zap.String("number", doc.Number),
		zap.Int("version", doc.DocVersion))

	return toDocumentResponse(doc), nil
}

// GenerateCI generates a commercial invoice for an order. Every call
// produces a fresh document with its own number; the order's invoice
// pointer is replaced each time.
func (s *DocumentService) GenerateCI(ctx context.Context, orderID, userID uuid.UUID, req GenerateCIRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "generate_ci",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	meta, err := document.NewCIMetadata(req.AWBNumber, req.FreightCharges, req.HSNCodes)
	if err != nil {
		return nil, err
	}

	doc, err := document.New(orderID, document.TypeCI, userID)
	if err != nil {
		return nil, err
	}
	number, err := s.allocator.NextNumber(ctx, document.TypeCI)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := doc.AssignNumber(number); err != nil {
		return nil, err
	}
	if err := doc.SetMetadata(meta); err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentNumber, number)

	html, err := s.trade.RenderCI(o, s.company.Current(ctx), doc.Number, doc.DocVersion, meta)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to build commercial invoice: %w", err)
	}

	stored, err := s.renderAndStore(ctx, doc, html, "Commercial Invoice "+doc.Number)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc.SetFile(stored.Path)
	if err := doc.AppendHistory(document.ActionCreated, userID, ""); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.drainEvents(doc)

	o.AttachInvoice(stored.URL)
	if err := s.orderRepo.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record commercial invoice on order: %w", err)
	}

	s.recordGenerated(ctx, document.TypeCI)
	s.logger.Info("commercial invoice generated",
		zap.String("orderId", orderID.String()),
		zap.String("number", doc.Number))

	return toDocumentResponse(doc), nil
}

// GeneratePackingList generates a packing list for an order. Like the
// commercial invoice, each call produces a fresh document.
func (s *DocumentService) GeneratePackingList(ctx context.Context, orderID, userID uuid.UUID, req GeneratePackingListRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "generate_packing_list",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	cartons := make([]document.CartonDetail, len(req.Cartons))
	for i, c := range req.Cartons {
		cartons[i] = document.CartonDetail{
			CartonNumber: c.CartonNumber,
			Contents:     c.Contents,
			Quantity:     c.Quantity,
			Weight:       c.Weight,
			Dimensions:   c.Dimensions,
		}
	}
	meta, err := document.NewPackingListMetadata(cartons, req.TotalWeight, req.TotalCBM)
	if err != nil {
		return nil, err
	}

	doc, err := document.New(orderID, document.TypePackingList, userID)
	if err != nil {
		return nil, err
	}
	number, err := s.allocator.NextNumber(ctx, document.TypePackingList)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := doc.AssignNumber(number); err != nil {
		return nil, err
	}
	if err := doc.SetMetadata(meta); err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentNumber, number)

	html, err := s.trade.RenderPackingList(o, s.company.Current(ctx), doc.Number, doc.DocVersion, meta)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to build packing list: %w", err)
	}

	stored, err := s.renderAndStore(ctx, doc, html, "Packing List "+doc.Number)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc.SetFile(stored.Path)
	if err := doc.AppendHistory(document.ActionCreated, userID, ""); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.drainEvents(doc)

	o.AttachPackingList(stored.URL)
	if err := s.orderRepo.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record packing list on order: %w", err)
	}

	s.recordGenerated(ctx, document.TypePackingList)
	s.logger.Info("packing list generated",
		zap.String("orderId", orderID.String()),
		zap.String("number", doc.Number))

	return toDocumentResponse(doc), nil
}

// UploadAWB records a courier air waybill against an order. AWB documents
// bypass the sequence allocator: the tracking number is the document number
// and the document is born SENT. Recording a shipment forces the order to
// SHIPPED regardless of its current status.
func (s *DocumentService) UploadAWB(ctx context.Context, orderID, userID uuid.UUID, req UploadAWBRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "upload_awb",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrTrackingNumber, req.TrackingNumber))
	defer span.End()

	if err := s.guardIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	meta, err := document.NewAWBMetadata(req.TrackingNumber, req.Courier, req.EstimatedDelivery, req.AWBURL)
	if err != nil {
		return nil, err
	}

	doc, err := document.NewAWB(orderID, userID, meta)
	if err != nil {
		return nil, err
	}
	note := "AWB recorded"
	if req.Courier != "" {
		note = "AWB recorded via " + req.Courier
	}
	if err := doc.AppendHistory(document.ActionCreated, userID, note); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.drainEvents(doc)

	if o.Status.IsTerminal() {
		s.logger.Warn("recording shipment over a terminal order status",
			zap.String("orderId", orderID.String()),
			zap.String("previousStatus", o.Status.String()))
	}
	o.RecordShipment(meta.AWBURL)
	if err := s.orderRepo.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record shipment on order: %w", err)
	}
	s.drainEvents(o)

	s.recordGenerated(ctx, document.TypeAWB)
	s.logger.Info("air waybill recorded",
		zap.String("orderId", orderID.String()),
		zap.String("trackingNumber", req.TrackingNumber),
		zap.String("courier", req.Courier))

	return toDocumentResponse(doc), nil
}

// =============================================================================
// Lifecycle Operations
// =============================================================================

// UpdateDocumentStatus transitions a document through its lifecycle and
// appends an UPDATED audit trail entry carrying the optional note.
func (s *DocumentService) UpdateDocumentStatus(ctx context.Context, docID, userID uuid.UUID, req UpdateStatusRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, docID.String()))
	defer span.End()

	target := document.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown document status: "+req.Status)
	}

	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := doc.UpdateStatus(target); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := doc.AppendHistory(document.ActionUpdated, userID, req.Note); err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentStatus, doc.Status.String())
	s.logger.Info("document status updated",
		zap.String("documentId", docID.String()),
		zap.String("number", doc.Number),
		zap.String("status", doc.Status.String()))

	return toDocumentResponse(doc), nil
}

// DownloadDocument returns a download URL for a document's file and records
// the download in the audit trail. Buyers may only download documents of
// their own orders; a refused download leaves no trail entry.
func (s *DocumentService) DownloadDocument(ctx context.Context, docID, userID uuid.UUID, buyerOnly bool) (*DownloadResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "download",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, docID.String()))
	defer span.End()

	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if buyerOnly {
		o, err := s.loadOrder(ctx, doc.OrderID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if !o.IsOwnedBy(userID) {
			return nil, shared.ErrForbidden
		}
	}

	var url string
	var expiresAt time.Time
	if doc.Type == document.TypeAWB {
		// AWB files live at the courier; the stored path is already a URL
		// and may be empty when only the tracking number was recorded
		url = doc.FilePath
	} else {
		if doc.FilePath == "" {
			return nil, shared.NewDomainError("NO_FILE", "Document has no stored file")
		}
		url, err = s.files.DownloadURL(ctx, doc.FilePath, s.downloadExpiry)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to build download URL: %w", err)
		}
		expiresAt = time.Now().Add(s.downloadExpiry)
	}

	if err := doc.AppendHistory(document.ActionDownloaded, userID, ""); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordDownload(ctx, doc.Type.String())
	}

	return &DownloadResponse{
		URL:       url,
		FileName:  doc.Number + ".pdf",
		ExpiresAt: expiresAt,
	}, nil
}

// =============================================================================
// Query Operations
// =============================================================================

// GetOrderDocuments lists all documents of an order, newest first. Buyers
// may only list documents of their own orders.
func (s *DocumentService) GetOrderDocuments(ctx context.Context, orderID, userID uuid.UUID, buyerOnly bool) ([]DocumentResponse, error) {
	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if buyerOnly && !o.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}

	docs, err := s.docRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order documents: %w", err)
	}
	return toDocumentResponses(docs), nil
}

// GetAllDocuments lists documents across all orders with optional type and
// status filters. Intended for back-office views.
func (s *DocumentService) GetAllDocuments(ctx context.Context, req ListDocumentsRequest) (*shared.Paginated[DocumentResponse], error) {
	filter := document.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	if req.Type != "" {
		t := document.Type(req.Type)
		if !t.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown document type: "+req.Type)
		}
		filter.Type = &t
	}
	if req.Status != "" {
		st := document.Status(req.Status)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown document status: "+req.Status)
		}
		filter.Status = &st
	}

	docs, err := s.docRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	total, err := s.docRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	page := shared.NewPaginated(toDocumentResponses(docs), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetBuyerDocuments lists the documents of all orders owned by a buyer
func (s *DocumentService) GetBuyerDocuments(ctx context.Context, buyerID uuid.UUID) ([]DocumentResponse, error) {
	orders, err := s.orderRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buyer orders: %w", err)
	}

	orderIDs := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	docs, err := s.docRepo.FindByOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list buyer documents: %w", err)
	}
	return toDocumentResponses(docs), nil
}

// =============================================================================
// Internals
// =============================================================================

// guardIdempotency rejects a repeated generation request. A missing key or
// an unconfigured store disables the check.
func (s *DocumentService) guardIdempotency(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyTTL)
	if err != nil {
		// The store being down must not block document generation
		s.logger.Warn("idempotency check failed, proceeding without it", zap.Error(err))
		return nil
	}
	if !fresh {
		return shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
	}
	return nil
}

// drainEvents publishes an aggregate's pending domain events to the log
// stream after a successful save and clears them
func (s *DocumentService) drainEvents(agg shared.AggregateRoot) {
	for _, ev := range agg.GetDomainEvents() {
		s.logger.Info("domain event",
			zap.String("event", ev.EventType()),
			zap.String("aggregateType", ev.AggregateType()),
			zap.String("aggregateId", ev.AggregateID().String()))
	}
	agg.ClearDomainEvents()
}

// renderAndStore converts rendered HTML to PDF and persists the file
func (s *DocumentService) renderAndStore(ctx context.Context, doc *document.Document, html, title string) (*storage.StoreResult, error) {
	result, err := s.pdf.Render(ctx, &rendering.RenderRequest{
		HTML:    html,
		Title:   title,
		Margins: rendering.DefaultMargins(),
	})
	if err != nil {
		var renderErr *rendering.RenderError
		if errors.As(err, &renderErr) {
			if s.metrics != nil {
				s.metrics.RecordRenderFailure(ctx, doc.Type.String(), renderErr.Code)
			}
			return nil, shared.NewDomainError(renderErr.Code, renderErr.Message)
		}
		if s.metrics != nil {
			s.metrics.RecordRenderFailure(ctx, doc.Type.String(), rendering.ErrCodeRenderFailed)
		}
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRenderDuration(ctx, doc.Type.String(), result.RenderDuration)
	}

	stored, err := s.files.Store(ctx, &storage.StoreRequest{
		DocumentID: doc.ID,
		PDFData:    result.PDFData,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}
	return stored, nil
}

func (s *DocumentService) loadOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return o, nil
}

func (s *DocumentService) loadDocument(ctx context.Context, docID uuid.UUID) (*document.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

func (s *DocumentService) recordGenerated(ctx context.Context, docType document.Type) {
	if s.metrics != nil {
		s.metrics.RecordGenerated(ctx, docType.String())
	}
}

func toDocumentResponses(docs []document.Document) []DocumentResponse {
	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = *toDocumentResponse(&docs[i])
	}
	return items
}
