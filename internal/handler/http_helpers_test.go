package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusTeapot, "nope")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"nope"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteError_EscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, `bad "quote"`)

	if strings.TrimSpace(rr.Body.String()) != `{"error":"bad \"quote\""}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteServiceError_Status(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported", apperrors.NewUnsupportedFormatError("application/zip", ".zip", domain.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{"corrupt", apperrors.NewCorruptOrEncryptedError("pdf", domain.ErrCorruptOrEncrypted), http.StatusUnprocessableEntity},
		{"timeout wrapped", fmt.Errorf("a.pdf: %w", apperrors.NewTimeoutError("pdf", nil)), http.StatusGatewayTimeout},
		{"not found", apperrors.NewNotFoundError("document 1", domain.ErrDocumentNotFound), http.StatusNotFound},
		{"access denied", apperrors.NewForbiddenError("document 1", domain.ErrAccessDenied), http.StatusForbidden},
		{"too large", apperrors.NewFileTooLargeError(10, domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{"empty", apperrors.NewValidationError("invalid upload", domain.ErrEmptyFile), http.StatusBadRequest},
		{"invalid token", apperrors.NewUnauthorizedError("token rejected", domain.ErrInvalidToken), http.StatusUnauthorized},
		{"internal", apperrors.NewInternalError("failed to list documents", errors.New("db down")), http.StatusInternalServerError},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeServiceError(rr, NewMockHandlerLogger(), "failed", tt.err)
			if rr.Code != tt.want {
				t.Fatalf("writeServiceError(%v) status = %d, want %d", tt.err, rr.Code, tt.want)
			}
		})
	}
}

func TestWriteServiceError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	writeServiceError(rr, NewMockHandlerLogger(), "failed", errors.New("connection string leaked"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if strings.Contains(rr.Body.String(), "leaked") {
		t.Fatalf("internal error must not be echoed: %s", rr.Body.String())
	}
}
