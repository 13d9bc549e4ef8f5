package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// defaultAllowedOrigins are the local dev servers allowed when no origins
// are configured.
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4173",
	"http://localhost:3000",
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	documentHandler *DocumentHandler,
	authMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "flowpulse-docparse"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/profile", authHandler.GetProfile).Methods(http.MethodGet)

	protected.HandleFunc("/documents/parse", documentHandler.ParseDocument).Methods(http.MethodPost)
	protected.HandleFunc("/documents/parse/batch", documentHandler.ParseBatch).Methods(http.MethodPost)
	protected.HandleFunc("/documents/compare", documentHandler.CompareDocuments).Methods(http.MethodPost)
	protected.HandleFunc("/documents", documentHandler.GetDocuments).Methods(http.MethodGet)
	protected.HandleFunc("/documents", documentHandler.UploadDocument).Methods(http.MethodPost)
	protected.HandleFunc("/documents/{id}", documentHandler.GetDocument).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}", documentHandler.DeleteDocument).Methods(http.MethodDelete)

	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
