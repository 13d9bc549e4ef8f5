package handler

import (
	"net/http"

	"flowpulse-docparse/internal/domain"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	logger domain.Logger
}

func NewAuthHandler(logger domain.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// GetProfile returns the user the request was authenticated as
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
