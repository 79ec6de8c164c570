package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/primeapparel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = pq.ErrorCode("23505")

// DocumentSortFields defines allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"document_type":   true,
	"document_number": true,
	"status":          true,
}

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByOrder finds all documents for an order, newest first
func (r *GormDocumentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]document.Document, error) {
	var docModels []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&docModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(docModels)
}

// FindByOrderAndType finds the most recent document of a given type for an
// order. Returns nil without error when none exists.
func (r *GormDocumentRepository) FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType document.Type) (*document.Document, error) {
	var model models.DocumentModel
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND document_type = ?", orderID, string(docType)).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByOrders finds all documents belonging to any of the given orders
func (r *GormDocumentRepository) FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]document.Document, error) {
	if len(orderIDs) == 0 {
		return []document.Document{}, nil
	}
	var docModels []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&docModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(docModels)
}

// FindAll finds all documents with optional filtering
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter document.Filter) ([]document.Document, error) {
	var docModels []models.DocumentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DocumentModel{}), filter)
	if err := query.Find(&docModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(docModels)
}

// Save saves a document (insert or update). A collision on the unique
// document_number index surfaces as ErrDuplicateNumber so callers can
// distinguish an allocation race from other failures.
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	model, err := models.DocumentModelFromDomain(doc)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return shared.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// Count returns the total count of documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter document.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{})
	query = r.applyTypeStatus(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns the number of documents per status. Used by the
// telemetry gauge collector.
func (r *GormDocumentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// applyFilter applies pagination, ordering and document filters to a query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter document.Filter) *gorm.DB {
	query = r.applyTypeStatus(query, filter)

	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, DocumentSortFields, "created_at"))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

func (r *GormDocumentRepository) applyTypeStatus(query *gorm.DB, filter document.Filter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("document_type = ?", string(*filter.Type))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	return query
}

func toDomainDocuments(docModels []models.DocumentModel) ([]document.Document, error) {
	docs := make([]document.Document, len(docModels))
	for i, model := range docModels {
		d, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		docs[i] = *d
	}
	return docs, nil
}
