package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/document"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// DocumentModel is the GORM model for the documents table
type DocumentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentType   string    `gorm:"column:document_type;type:varchar(30);not null;index"`
	DocumentNumber string    `gorm:"column:document_number;type:varchar(100);not null;uniqueIndex"`
	FilePath       string    `gorm:"column:file_path;type:text"`
	DocVersion     int       `gorm:"column:doc_version;not null;default:1"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	MetadataType   string    `gorm:"column:metadata_type;type:varchar(30)"`
	Metadata       []byte    `gorm:"type:jsonb"`
	CreatedBy      uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	Recipients     []byte    `gorm:"type:jsonb;not null;default:'[]'"`
	History        []byte    `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
	Version        int       `gorm:"not null;default:1"`
}

// TableName returns the table name for DocumentModel
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts DocumentModel to a domain Document
func (m *DocumentModel) ToDomain() (*document.Document, error) {
	var recipients []uuid.UUID
	if len(m.Recipients) > 0 {
		if err := json.Unmarshal(m.Recipients, &recipients); err != nil {
			return nil, err
		}
	}

	var history []document.HistoryEntry
	if len(m.History) > 0 {
		if err := json.Unmarshal(m.History, &history); err != nil {
			return nil, err
		}
	}

	meta, err := document.UnmarshalMetadata(document.Type(m.DocumentType), m.Metadata)
	if err != nil {
		return nil, err
	}

	return &document.Document{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderID:    m.OrderID,
		Type:       document.Type(m.DocumentType),
		Number:     m.DocumentNumber,
		FilePath:   m.FilePath,
		DocVersion: m.DocVersion,
		Status:     document.Status(m.Status),
		Metadata:   meta,
		CreatedBy:  m.CreatedBy,
		Recipients: recipients,
		History:    history,
	}, nil
}

// DocumentModelFromDomain creates a DocumentModel from a domain Document
func DocumentModelFromDomain(d *document.Document) (*DocumentModel, error) {
	recipients, err := json.Marshal(d.Recipients)
	if err != nil {
		return nil, err
	}

	history, err := json.Marshal(d.History)
	if err != nil {
		return nil, err
	}

	var metadata []byte
	var metadataType string
	if d.Metadata != nil {
		metadata, err = json.Marshal(d.Metadata)
		if err != nil {
			return nil, err
		}
		metadataType = string(d.Metadata.MetadataType())
	}

	return &DocumentModel{
		ID:             d.ID,
		OrderID:        d.OrderID,
		DocumentType:   string(d.Type),
		DocumentNumber: d.Number,
		FilePath:       d.FilePath,
		DocVersion:     d.DocVersion,
		Status:         string(d.Status),
		MetadataType:   metadataType,
		Metadata:       metadata,
		CreatedBy:      d.CreatedBy,
		Recipients:     recipients,
		History:        history,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.Version,
	}, nil
}

// DocumentSequenceModel is the GORM model for the document_sequences
// counter table backing number allocation
type DocumentSequenceModel struct {
	DocType string `gorm:"column:doc_type;type:varchar(30);primaryKey"`
	Year    int    `gorm:"primaryKey"`
	Value   int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for DocumentSequenceModel
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
