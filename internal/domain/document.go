package domain

import (
	"context"
	"time"
)

// DocumentType is the business label assigned by the classifier.
type DocumentType string

const (
	DocumentTypeInvoice      DocumentType = "invoice"
	DocumentTypeReport       DocumentType = "report"
	DocumentTypeStatement    DocumentType = "statement"
	DocumentTypeArticle      DocumentType = "article"
	DocumentTypeContract     DocumentType = "contract"
	DocumentTypePresentation DocumentType = "presentation"
	DocumentTypeSpreadsheet  DocumentType = "spreadsheet"
	DocumentTypeLetter       DocumentType = "letter"
	DocumentTypeProposal     DocumentType = "proposal"
	DocumentTypePolicy       DocumentType = "policy"
	DocumentTypeResume       DocumentType = "resume"
	DocumentTypeOther        DocumentType = "other"
)

var allDocumentTypes = []DocumentType{
	DocumentTypeInvoice,
	DocumentTypeReport,
	DocumentTypeStatement,
	DocumentTypeArticle,
	DocumentTypeContract,
	DocumentTypePresentation,
	DocumentTypeSpreadsheet,
	DocumentTypeLetter,
	DocumentTypeProposal,
	DocumentTypePolicy,
	DocumentTypeResume,
	DocumentTypeOther,
}

// DocumentTypes returns every label the classifier may emit.
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(allDocumentTypes))
	copy(out, allDocumentTypes)
	return out
}

// Valid reports whether t is one of the known labels.
func (t DocumentType) Valid() bool {
	for _, known := range allDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Table is an ordered list of rows, each an ordered list of cells.
type Table [][]string

// DocumentMetadata describes the extracted content.
type DocumentMetadata struct {
	WordCount   int       `json:"word_count"`
	ExtractedAt time.Time `json:"extracted_at"`
	HasImages   bool      `json:"has_images"`
	PageCount   *int      `json:"page_count,omitempty"`
	Language    string    `json:"language,omitempty"`
}

// KPI is a heuristically detected "Label: Value" pair.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KeyData holds the salient facts pulled out of the content.
type KeyData struct {
	Numbers  []string `json:"numbers"`
	Dates    []string `json:"dates"`
	Entities []string `json:"entities"`
	KPIs     []KPI    `json:"kpis"`
}

// ParsedDocument is produced once per parse call and never mutated afterwards.
type ParsedDocument struct {
	ID             string           `json:"id"`
	FileName       string           `json:"file_name"`
	FileType       string           `json:"file_type"`
	ClassifiedType DocumentType     `json:"classified_type"`
	Content        string           `json:"content"`
	Tables         []Table          `json:"tables"`
	Metadata       DocumentMetadata `json:"metadata"`
	KeyData        KeyData          `json:"key_data"`
}

// StoredDocument is a parsed document persisted on behalf of a user.
type StoredDocument struct {
	ParsedDocument
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comparison is the outcome of comparing two parsed documents.
type Comparison struct {
	Similarities []string `json:"similarities"`
	Differences  []string `json:"differences"`
	Summary      string   `json:"summary"`
}

// ParsedDocumentRepository defines persistence operations for parsed documents.
type ParsedDocumentRepository interface {
	Create(ctx context.Context, doc *StoredDocument, token string) error
	GetByID(ctx context.Context, id string, token string) (*StoredDocument, error)
	GetByUserID(ctx context.Context, userID string, token string) ([]*StoredDocument, error)
	Delete(ctx context.Context, id string, token string) error
}

// DocumentService defines the use-case operations exposed over HTTP.
type DocumentService interface {
	Parse(ctx context.Context, file *InputFile) (*ParsedDocument, error)
	ParseBatch(ctx context.Context, files []*InputFile) ([]*ParsedDocument, error)
	Compare(a, b *ParsedDocument) Comparison
	Upload(ctx context.Context, userID string, file *InputFile, token string) (*StoredDocument, error)
	GetDocument(ctx context.Context, userID, documentID string, token string) (*StoredDocument, error)
	ListDocuments(ctx context.Context, userID string, token string) ([]*StoredDocument, error)
	DeleteDocument(ctx context.Context, userID, documentID string, token string) error
	CompareStored(ctx context.Context, userID, idA, idB string, token string) (Comparison, error)
}

// Validate checks the fields required before a document is persisted.
func (d *StoredDocument) Validate() error {
	if d.ID == "" {
		return &ValidationError{Field: "id", Message: "document ID is required"}
	}
	if d.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "user ID is required"}
	}
	if d.FileName == "" {
		return &ValidationError{Field: "file_name", Message: "file name is required"}
	}
	if !d.ClassifiedType.Valid() {
		return &ValidationError{Field: "classified_type", Message: "unknown document type " + string(d.ClassifiedType)}
	}
	if d.Metadata.WordCount < 0 {
		return &ValidationError{Field: "word_count", Message: "word count cannot be negative"}
	}
	return nil
}
