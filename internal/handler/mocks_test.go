package handler

import (
	"context"
	"net/http"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             {}

// MockDocumentService records the files it is handed and serves stored
// documents from a map.
type MockDocumentService struct {
	documents map[string]*domain.StoredDocument
	parsed    []*domain.InputFile
	parseErr  error
}

func NewMockDocumentService() *MockDocumentService {
	return &MockDocumentService{documents: make(map[string]*domain.StoredDocument)}
}

func (m *MockDocumentService) Parse(ctx context.Context, file *domain.InputFile) (*domain.ParsedDocument, error) {
	m.parsed = append(m.parsed, file)
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	if len(file.Data) == 0 {
		return nil, apperrors.NewValidationError("invalid upload", domain.ErrEmptyFile)
	}
	return &domain.ParsedDocument{
		ID:             "parsed-" + file.Name,
		FileName:       file.Name,
		FileType:       file.MIMEType,
		ClassifiedType: domain.DocumentTypeOther,
		Content:        string(file.Data),
		Tables:         []domain.Table{},
	}, nil
}

func (m *MockDocumentService) ParseBatch(ctx context.Context, files []*domain.InputFile) ([]*domain.ParsedDocument, error) {
	out := make([]*domain.ParsedDocument, len(files))
	for i, f := range files {
		doc, err := m.Parse(ctx, f)
		if err != nil {
			return nil, err
		}
		out[i] = doc
	}
	return out, nil
}

func (m *MockDocumentService) Compare(a, b *domain.ParsedDocument) domain.Comparison {
	return domain.Comparison{
		Similarities: []string{a.FileName + " and " + b.FileName},
		Differences:  []string{},
		Summary:      "compared",
	}
}

func (m *MockDocumentService) Upload(ctx context.Context, userID string, file *domain.InputFile, token string) (*domain.StoredDocument, error) {
	parsed, err := m.Parse(ctx, file)
	if err != nil {
		return nil, err
	}
	doc := &domain.StoredDocument{ParsedDocument: *parsed, UserID: userID}
	m.documents[doc.ID] = doc
	return doc, nil
}

func (m *MockDocumentService) GetDocument(ctx context.Context, userID, documentID string, token string) (*domain.StoredDocument, error) {
	doc, ok := m.documents[documentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("document "+documentID, domain.ErrDocumentNotFound)
	}
	if doc.UserID != userID {
		return nil, apperrors.NewForbiddenError("document "+documentID, domain.ErrAccessDenied)
	}
	return doc, nil
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, userID string, token string) ([]*domain.StoredDocument, error) {
	var docs []*domain.StoredDocument
	for _, doc := range m.documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, userID, documentID string, token string) error {
	if _, err := m.GetDocument(ctx, userID, documentID, token); err != nil {
		return err
	}
	delete(m.documents, documentID)
	return nil
}

func (m *MockDocumentService) CompareStored(ctx context.Context, userID, idA, idB string, token string) (domain.Comparison, error) {
	a, err := m.GetDocument(ctx, userID, idA, token)
	if err != nil {
		return domain.Comparison{}, err
	}
	b, err := m.GetDocument(ctx, userID, idB, token)
	if err != nil {
		return domain.Comparison{}, err
	}
	return m.Compare(&a.ParsedDocument, &b.ParsedDocument), nil
}

type mockAuthService struct {
	user      *domain.SupabaseUser
	err       error
	lastToken string
}

func (m *mockAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

// withUser attaches user and token the way the auth middleware does.
func withUser(r *http.Request, user *domain.SupabaseUser, token string) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return r.WithContext(ctx)
}
