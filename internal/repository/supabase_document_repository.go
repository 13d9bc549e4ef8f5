package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"flowpulse-docparse/internal/domain"
)

const parsedDocumentsTable = "parsed_documents"

// SupabaseDocumentRepository implements domain.ParsedDocumentRepository on
// the parsed_documents table.
type SupabaseDocumentRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseDocumentRepository creates a new Supabase document repository
func NewSupabaseDocumentRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.ParsedDocumentRepository {
	return &SupabaseDocumentRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// parsedDocumentRow is the table layout. tables, metadata and key_data are
// jsonb columns.
type parsedDocumentRow struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"user_id"`
	FileName       string                  `json:"file_name"`
	FileType       string                  `json:"file_type"`
	ClassifiedType string                  `json:"classified_type"`
	Content        string                  `json:"content"`
	Tables         []domain.Table          `json:"tables"`
	Metadata       domain.DocumentMetadata `json:"metadata"`
	KeyData        domain.KeyData          `json:"key_data"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Create inserts a parsed document
func (r *SupabaseDocumentRepository) Create(ctx context.Context, doc *domain.StoredDocument, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := toRow(doc)
	_, _, err = client.From(parsedDocumentsTable).Insert(row, false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to insert document in Supabase", err,
			"doc_id", doc.ID,
			"content_length", len(row.Content),
			"tables", len(row.Tables),
		)
		return fmt.Errorf("failed to create document: %w", err)
	}

	r.logger.Info("Document created", "id", doc.ID, "user_id", doc.UserID)
	return nil
}

// GetByID retrieves a document by ID. Ids that are not UUIDs cannot match
// the uuid primary key and are reported as not found.
func (r *SupabaseDocumentRepository) GetByID(ctx context.Context, id string, token string) (*domain.StoredDocument, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrDocumentNotFound
	}
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(parsedDocumentsTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var rows []parsedDocumentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	return fromRow(rows[0]), nil
}

// GetByUserID retrieves all documents for a user, newest first
func (r *SupabaseDocumentRepository) GetByUserID(ctx context.Context, userID string, token string) ([]*domain.StoredDocument, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(parsedDocumentsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	var rows []parsedDocumentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	docs := make([]*domain.StoredDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, fromRow(row))
	}
	sortNewestFirst(docs)
	return docs, nil
}

// Delete removes a document by ID
func (r *SupabaseDocumentRepository) Delete(ctx context.Context, id string, token string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrDocumentNotFound
	}
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err = client.From(parsedDocumentsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// toRow copies doc into a row with NUL characters removed. Postgres rejects
// \u0000 in text and jsonb (22P05).
func toRow(doc *domain.StoredDocument) parsedDocumentRow {
	tables := make([]domain.Table, len(doc.Tables))
	for i, t := range doc.Tables {
		tables[i] = make(domain.Table, len(t))
		for j, row := range t {
			tables[i][j] = stripNULs(row)
		}
	}

	kd := domain.KeyData{
		Numbers:  stripNULs(doc.KeyData.Numbers),
		Dates:    stripNULs(doc.KeyData.Dates),
		Entities: stripNULs(doc.KeyData.Entities),
		KPIs:     make([]domain.KPI, len(doc.KeyData.KPIs)),
	}
	for i, k := range doc.KeyData.KPIs {
		kd.KPIs[i] = domain.KPI{Label: stripNUL(k.Label), Value: stripNUL(k.Value)}
	}

	meta := doc.Metadata
	meta.Language = stripNUL(meta.Language)

	return parsedDocumentRow{
		ID:             doc.ID,
		UserID:         doc.UserID,
		FileName:       stripNUL(doc.FileName),
		FileType:       stripNUL(doc.FileType),
		ClassifiedType: string(doc.ClassifiedType),
		Content:        stripNUL(doc.Content),
		Tables:         tables,
		Metadata:       meta,
		KeyData:        kd,
		CreatedAt:      doc.CreatedAt,
	}
}

func fromRow(row parsedDocumentRow) *domain.StoredDocument {
	if row.Tables == nil {
		row.Tables = []domain.Table{}
	}
	kd := row.KeyData
	if kd.Numbers == nil {
		kd.Numbers = []string{}
	}
	if kd.Dates == nil {
		kd.Dates = []string{}
	}
	if kd.Entities == nil {
		kd.Entities = []string{}
	}
	if kd.KPIs == nil {
		kd.KPIs = []domain.KPI{}
	}

	return &domain.StoredDocument{
		ParsedDocument: domain.ParsedDocument{
			ID:             row.ID,
			FileName:       row.FileName,
			FileType:       row.FileType,
			ClassifiedType: domain.DocumentType(row.ClassifiedType),
			Content:        row.Content,
			Tables:         row.Tables,
			Metadata:       row.Metadata,
			KeyData:        kd,
		},
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
	}
}

func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

func stripNULs(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = stripNUL(v)
	}
	return out
}

func sortNewestFirst(docs []*domain.StoredDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}
