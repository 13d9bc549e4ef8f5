package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flowpulse-docparse/internal/domain"
)

func TestAuthHandler_GetProfile_Unauthorized(t *testing.T) {
	handler := NewAuthHandler(NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	rr := httptest.NewRecorder()

	handler.GetProfile(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "User not found in context") {
		t.Fatalf("expected error message in response, got %s", rr.Body.String())
	}
}

func TestAuthHandler_GetProfile_OK(t *testing.T) {
	handler := NewAuthHandler(NewMockHandlerLogger())

	user := &domain.SupabaseUser{ID: "user-1", Email: "test@example.com"}
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil), user, "tok")

	rr := httptest.NewRecorder()
	handler.GetProfile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["id"] != "user-1" {
		t.Fatalf("expected id user-1, got %v", payload["id"])
	}
}
