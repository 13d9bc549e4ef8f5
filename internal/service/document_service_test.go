package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowpulse-docparse/internal/domain"
	"flowpulse-docparse/internal/extract"
	apperrors "flowpulse-docparse/pkg/errors"
)

// Mock implementations for testing
type MockLogger struct{}

func (l *MockLogger) Info(msg string, fields ...interface{}) {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockLogger) Debug(msg string, fields ...interface{}) {}
func (l *MockLogger) Warn(msg string, fields ...interface{}) {}

type MockParsedDocumentRepository struct {
	mu        sync.Mutex
	documents map[string]*domain.StoredDocument
	createErr error
}

func NewMockParsedDocumentRepository() *MockParsedDocumentRepository {
	return &MockParsedDocumentRepository{documents: make(map[string]*domain.StoredDocument)}
}

func (m *MockParsedDocumentRepository) Create(ctx context.Context, doc *domain.StoredDocument, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.documents[doc.ID] = doc
	return nil
}

func (m *MockParsedDocumentRepository) GetByID(ctx context.Context, id string, token string) (*domain.StoredDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.documents[id]; ok {
		return doc, nil
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *MockParsedDocumentRepository) GetByUserID(ctx context.Context, userID string, token string) ([]*domain.StoredDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var docs []*domain.StoredDocument
	for _, doc := range m.documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (m *MockParsedDocumentRepository) Delete(ctx context.Context, id string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.documents, id)
	return nil
}

type slowExtractor struct {
	delay time.Duration
}

func (s slowExtractor) Extract(ctx context.Context, file *domain.InputFile) (extract.Format, *extract.Result, error) {
	select {
	case <-time.After(s.delay):
		return extract.FormatText, &extract.Result{Text: string(file.Data)}, nil
	case <-ctx.Done():
		return extract.FormatText, nil, apperrors.NewTimeoutError("text", ctx.Err())
	}
}

func newTestService(repo domain.ParsedDocumentRepository) *DocumentService {
	return NewDocumentService(
		extract.NewRegistry(&MockLogger{}, nil),
		repo,
		&MockLogger{},
		Options{MaxFileSize: 1 << 20, BatchConcurrency: 2},
	)
}

const invoiceText = "Invoice Number: INV-2024-001\n" +
	"Bill To: Acme Corp\n" +
	"Amount Due: $1,250.00\n" +
	"Date: 15 March 2024\n"

func TestDocumentService_Parse_InvoiceEndToEnd(t *testing.T) {
	svc := newTestService(NewMockParsedDocumentRepository())

	doc, err := svc.Parse(context.Background(), &domain.InputFile{Name: "scan.txt", MIMEType: "text/plain", Data: []byte(invoiceText)})

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "scan.txt", doc.FileName)
	assert.Equal(t, "text/plain", doc.FileType)
	assert.Equal(t, domain.DocumentTypeInvoice, doc.ClassifiedType)
	assert.Equal(t, invoiceText, doc.Content)
	assert.Contains(t, doc.KeyData.Numbers, "$1,250.00")
	assert.Contains(t, doc.KeyData.Dates, "15 March 2024")
	assert.Contains(t, doc.KeyData.Entities, "Acme Corp")
	assert.Equal(t, []domain.Table{}, doc.Tables)
	assert.Equal(t, 14, doc.Metadata.WordCount)
	assert.Nil(t, doc.Metadata.PageCount)
	assert.False(t, doc.Metadata.ExtractedAt.IsZero())
}

func TestDocumentService_Parse_Idempotent(t *testing.T) {
	svc := newTestService(NewMockParsedDocumentRepository())
	data := []byte("| a | b | c |\n|---|---|---|\n| 1 | 2 | 3 |\nDear team, the total was $5 on 1/2/2024.\nSincerely, Sam Lee")

	first, err := svc.Parse(context.Background(), &domain.InputFile{Name: "memo.md", Data: data})
	require.NoError(t, err)
	second, err := svc.Parse(context.Background(), &domain.InputFile{Name: "memo.md", Data: data})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Tables, second.Tables)
	assert.Equal(t, first.KeyData, second.KeyData)
	assert.Equal(t, first.ClassifiedType, second.ClassifiedType)
	assert.Equal(t, domain.DocumentTypeLetter, first.ClassifiedType)
	require.Len(t, first.Tables, 1)
}

func TestDocumentService_Parse_Validation(t *testing.T) {
	svc := newTestService(NewMockParsedDocumentRepository())

	_, err := svc.Parse(context.Background(), &domain.InputFile{Name: "a.txt"})
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = svc.Parse(context.Background(), &domain.InputFile{Name: "a.txt", Data: make([]byte, 2<<20)})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestDocumentService_Parse_Unsupported(t *testing.T) {
	svc := newTestService(NewMockParsedDocumentRepository())

	_, err := svc.Parse(context.Background(), &domain.InputFile{Name: "blob.bin", Data: []byte{0x00, 0xff, 0x00}})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestDocumentService_Parse_Timeout(t *testing.T) {
	svc := NewDocumentService(slowExtractor{delay: time.Second}, NewMockParsedDocumentRepository(), &MockLogger{}, Options{ExtractTimeout: 10 * time.Millisecond})

	_, err := svc.Parse(context.Background(), &domain.InputFile{Name: "a.txt", Data: []byte("x")})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout))
}

func TestDocumentService_ParseBatch(t *testing.T) {
	svc := newTestService(NewMockParsedDocumentRepository())
	files := []*domain.InputFile{
		{Name: "one.txt", Data: []byte("first")},
		{Name: "invoice.txt", Data: []byte("second")},
		{Name: "three.txt", Data: []byte("third")},
	}

	docs, err := svc.ParseBatch(context.Background(), files)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, f := range files {
		assert.Equal(t, f.Name, docs[i].FileName)
		assert.Equal(t, string(f.Data), docs[i].Content)
	}
	assert.Equal(t, domain.DocumentTypeInvoice, docs[1].ClassifiedType)
}

func TestDocumentService_ParseBatch_FailsAsWhole(t *testing.T) {
	svc := newTestService(NewMockParsedDocumentRepository())

	docs, err := svc.ParseBatch(context.Background(), []*domain.InputFile{
		{Name: "ok.txt", Data: []byte("fine")},
		{Name: "bad.bin", Data: []byte{0x00, 0x01}},
	})

	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "bad.bin")
	assert.Equal(t, 415, apperrors.GetStatusCode(err))
}

func TestDocumentService_StoredLifecycle(t *testing.T) {
	repo := NewMockParsedDocumentRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "user-1", &domain.InputFile{Name: "a.txt", Data: []byte(invoiceText)}, "token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", a.UserID)
	b, err := svc.Upload(ctx, "user-1", &domain.InputFile{Name: "b.txt", Data: []byte("Acme Corp paid $1,250.00")}, "token")
	require.NoError(t, err)

	got, err := svc.GetDocument(ctx, "user-1", a.ID, "token")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.GetDocument(ctx, "user-2", a.ID, "token")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	list, err := svc.ListDocuments(ctx, "user-1", "token")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	cmp, err := svc.CompareStored(ctx, "user-1", a.ID, b.ID, "token")
	require.NoError(t, err)
	assert.Contains(t, cmp.Similarities, "Shared numbers: $1,250.00, 1,250.00")
	assert.Contains(t, cmp.Similarities, "Shared entities: Acme Corp")

	_, err = svc.CompareStored(ctx, "user-2", a.ID, b.ID, "token")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	assert.ErrorIs(t, svc.DeleteDocument(ctx, "user-2", a.ID, "token"), domain.ErrAccessDenied)
	require.NoError(t, svc.DeleteDocument(ctx, "user-1", a.ID, "token"))
	_, err = svc.GetDocument(ctx, "user-1", a.ID, "token")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentService_Upload_RepositoryError(t *testing.T) {
	repo := NewMockParsedDocumentRepository()
	repo.createErr = errors.New("db down")
	svc := newTestService(repo)

	_, err := svc.Upload(context.Background(), "user-1", &domain.InputFile{Name: "a.txt", Data: []byte("x")}, "token")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatusCode(err))
	assert.Contains(t, err.Error(), "db down")
}

func TestDocumentService_ErrorsCarryHTTPStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewDocumentService(extract.NewRegistry(&MockLogger{}, nil), NewMockParsedDocumentRepository(), &MockLogger{}, Options{MaxFileSize: 4})

	_, err := svc.Parse(ctx, &domain.InputFile{Name: "a.txt"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, http.StatusBadRequest, apperrors.GetStatusCode(err))

	_, err = svc.Parse(ctx, &domain.InputFile{Name: "a.txt", Data: []byte("too long")})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFileTooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apperrors.GetStatusCode(err))

	_, err = svc.GetDocument(ctx, "user-1", "missing", "token")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Equal(t, http.StatusNotFound, apperrors.GetStatusCode(err))

	doc, err := svc.Upload(ctx, "user-1", &domain.InputFile{Name: "a.txt", Data: []byte("abc")}, "token")
	require.NoError(t, err)
	_, err = svc.GetDocument(ctx, "user-2", doc.ID, "token")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	assert.Equal(t, http.StatusForbidden, apperrors.GetStatusCode(err))
}
