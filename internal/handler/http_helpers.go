package handler

import (
	"encoding/json"
	"net/http"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError logs err and writes it with the mapped status. Internal
// failures are not echoed to the client.
func writeServiceError(w http.ResponseWriter, logger domain.Logger, msg string, err error) {
	status := apperrors.GetStatusCode(err)
	if status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout {
		logger.Error(msg, err)
		writeError(w, status, "Internal server error")
		return
	}
	logger.Warn(msg, "error", err.Error(), "status", status)
	writeError(w, status, err.Error())
}
