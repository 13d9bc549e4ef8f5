package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flowpulse-docparse/internal/domain"
)

func newTestRouter(svc *MockDocumentService) http.Handler {
	logger := NewMockHandlerLogger()
	return NewRouter(
		NewAuthHandler(logger),
		NewDocumentHandler(svc, logger, 0),
		AnonymousMiddleware,
		nil,
	)
}

func TestNewRouter_Health(t *testing.T) {
	router := newTestRouter(NewMockDocumentService())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_RoutesParseBeforeID(t *testing.T) {
	svc := NewMockDocumentService()
	router := newTestRouter(svc)

	req := multipartRequest(t, http.MethodPost, "/api/v1/documents/parse",
		uploadPart{field: "file", name: "a.txt", mimeType: "text/plain", data: "hi"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if len(svc.parsed) != 1 {
		t.Fatalf("expected parse to be called once, got %d", len(svc.parsed))
	}
}

func TestNewRouter_AnonymousUserOwnsUploads(t *testing.T) {
	svc := NewMockDocumentService()
	router := newTestRouter(svc)

	req := multipartRequest(t, http.MethodPost, "/api/v1/documents",
		uploadPart{field: "file", name: "a.txt", mimeType: "text/plain", data: "hi"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	if doc := svc.documents["parsed-a.txt"]; doc == nil || doc.UserID != domain.AnonymousUserID {
		t.Fatalf("expected anonymous owner, got %+v", doc)
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(NewMockDocumentService())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/documents", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
