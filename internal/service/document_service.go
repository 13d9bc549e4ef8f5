package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"flowpulse-docparse/internal/analysis"
	"flowpulse-docparse/internal/domain"
	"flowpulse-docparse/internal/extract"
	apperrors "flowpulse-docparse/pkg/errors"
)

// Extractor turns an uploaded file into raw text.
type Extractor interface {
	Extract(ctx context.Context, file *domain.InputFile) (extract.Format, *extract.Result, error)
}

// Options tune the document service. Zero values disable the limit.
type Options struct {
	MaxFileSize      int64
	ExtractTimeout   time.Duration
	BatchConcurrency int
}

type DocumentService struct {
	extractor Extractor
	repo      domain.ParsedDocumentRepository
	logger    domain.Logger
	opts      Options
}

func NewDocumentService(
	extractor Extractor,
	repo domain.ParsedDocumentRepository,
	logger domain.Logger,
	opts Options,
) *DocumentService {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	return &DocumentService{
		extractor: extractor,
		repo:      repo,
		logger:    logger,
		opts:      opts,
	}
}

// Parse runs detection, extraction, table reconstruction, fact extraction
// and classification. Either the whole parse succeeds or it returns the
// extraction error; there are no partial results.
func (s *DocumentService) Parse(ctx context.Context, file *domain.InputFile) (*domain.ParsedDocument, error) {
	if err := file.Validate(s.opts.MaxFileSize); err != nil {
		return nil, s.inputError(err)
	}

	if s.opts.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ExtractTimeout)
		defer cancel()
	}

	start := time.Now()
	format, res, err := s.extractor.Extract(ctx, file)
	if err != nil {
		return nil, err
	}

	tables := res.Tables
	if tables == nil {
		tables = analysis.ExtractTablesFromText(res.Text)
	}

	doc := &domain.ParsedDocument{
		ID:             uuid.NewString(),
		FileName:       file.Name,
		FileType:       extract.MIMEType(file, format),
		ClassifiedType: analysis.Classify(res.Text, file.Name),
		Content:        res.Text,
		Tables:         tables,
		Metadata: domain.DocumentMetadata{
			WordCount:   len(strings.Fields(res.Text)),
			ExtractedAt: time.Now().UTC(),
			HasImages:   res.HasImages,
			PageCount:   res.PageCount,
			Language:    res.Language,
		},
		KeyData: analysis.ExtractKeyData(res.Text),
	}

	s.logger.Info("Document parsed",
		"document_id", doc.ID,
		"file_name", file.Name,
		"format", format,
		"classified_type", doc.ClassifiedType,
		"word_count", doc.Metadata.WordCount,
		"tables", len(doc.Tables),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

// ParseBatch parses independent files concurrently. Results keep the input
// order; the first failure cancels the remaining parses.
func (s *DocumentService) ParseBatch(ctx context.Context, files []*domain.InputFile) ([]*domain.ParsedDocument, error) {
	results := make([]*domain.ParsedDocument, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, file := range files {
		g.Go(func() error {
			doc, err := s.Parse(gctx, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file.Name, err)
			}
			results[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *DocumentService) Compare(a, b *domain.ParsedDocument) domain.Comparison {
	return analysis.Compare(a, b)
}

// Upload parses file and stores the result for userID.
func (s *DocumentService) Upload(ctx context.Context, userID string, file *domain.InputFile, token string) (*domain.StoredDocument, error) {
	parsed, err := s.Parse(ctx, file)
	if err != nil {
		return nil, err
	}

	stored := &domain.StoredDocument{
		ParsedDocument: *parsed,
		UserID:         userID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := stored.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid document", err)
	}
	if err := s.repo.Create(ctx, stored, token); err != nil {
		s.logger.Error("Failed to store parsed document", err, "document_id", stored.ID, "user_id", userID)
		return nil, storeError("failed to store document", stored.ID, err)
	}
	return stored, nil
}

func (s *DocumentService) GetDocument(ctx context.Context, userID, documentID string, token string) (*domain.StoredDocument, error) {
	doc, err := s.repo.GetByID(ctx, documentID, token)
	if err != nil {
		return nil, storeError("failed to load document", documentID, err)
	}
	if doc.UserID != userID {
		return nil, apperrors.NewForbiddenError("document "+documentID, domain.ErrAccessDenied)
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, userID string, token string) ([]*domain.StoredDocument, error) {
	docs, err := s.repo.GetByUserID(ctx, userID, token)
	if err != nil {
		return nil, storeError("failed to list documents", "", err)
	}
	return docs, nil
}

func (s *DocumentService) DeleteDocument(ctx context.Context, userID, documentID string, token string) error {
	if _, err := s.GetDocument(ctx, userID, documentID, token); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, documentID, token); err != nil {
		return storeError("failed to delete document", documentID, err)
	}
	return nil
}

// CompareStored compares two documents owned by userID.
func (s *DocumentService) CompareStored(ctx context.Context, userID, idA, idB string, token string) (domain.Comparison, error) {
	a, err := s.GetDocument(ctx, userID, idA, token)
	if err != nil {
		return domain.Comparison{}, err
	}
	b, err := s.GetDocument(ctx, userID, idB, token)
	if err != nil {
		return domain.Comparison{}, err
	}
	return s.Compare(&a.ParsedDocument, &b.ParsedDocument), nil
}

func (s *DocumentService) inputError(err error) error {
	if errors.Is(err, domain.ErrFileTooLarge) {
		return apperrors.NewFileTooLargeError(s.opts.MaxFileSize, err)
	}
	return apperrors.NewValidationError("invalid upload", err)
}

// storeError keeps not-found distinguishable from repository failures.
func storeError(msg, documentID string, err error) error {
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return apperrors.NewNotFoundError("document "+documentID, err)
	}
	return apperrors.NewInternalError(msg, err)
}
