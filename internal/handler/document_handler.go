// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"flowpulse-docparse/internal/domain"
)

// multipartMemory is how much of a multipart body is held in memory before
// the rest spills to temporary files.
const multipartMemory = 32 << 20

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documentService domain.DocumentService
	logger          domain.Logger
	maxFileSize     int64
}

// NewDocumentHandler creates a new document handler. maxFileSize bounds how
// much of each uploaded part is read; zero means unbounded.
func NewDocumentHandler(documentService domain.DocumentService, logger domain.Logger, maxFileSize int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
		maxFileSize:     maxFileSize,
	}
}

type compareRequest struct {
	Documents   []*domain.ParsedDocument `json:"documents"`
	DocumentIDs []string                 `json:"document_ids"`
}

// ParseDocument parses a single uploaded file without storing it.
func (h *DocumentHandler) ParseDocument(w http.ResponseWriter, r *http.Request) {
	file, err := h.formFile(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documentService.Parse(r.Context(), file)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to parse document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ParseBatch parses every part named "files". Results keep upload order.
func (h *DocumentHandler) ParseBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	files := make([]*domain.InputFile, 0, len(headers))
	for _, fh := range headers {
		file, err := h.readPart(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		files = append(files, file)
	}

	docs, err := h.documentService.ParseBatch(r.Context(), files)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to parse batch", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// CompareDocuments compares two parsed documents posted inline, or two
// stored documents referenced by id.
func (h *DocumentHandler) CompareDocuments(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case len(req.DocumentIDs) == 2:
		user, ok := GetUserFromContext(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "User not found in context")
			return
		}
		token, _ := GetTokenFromContext(r)

		cmp, err := h.documentService.CompareStored(r.Context(), user.ID, req.DocumentIDs[0], req.DocumentIDs[1], token)
		if err != nil {
			writeServiceError(w, h.logger, "Failed to compare documents", err)
			return
		}
		writeJSON(w, http.StatusOK, cmp)
	case len(req.Documents) == 2 && req.Documents[0] != nil && req.Documents[1] != nil:
		writeJSON(w, http.StatusOK, h.documentService.Compare(req.Documents[0], req.Documents[1]))
	default:
		writeError(w, http.StatusBadRequest, "Exactly two documents or two document_ids are required")
	}
}

// UploadDocument parses a file and stores the result for the current user.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	file, err := h.formFile(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documentService.Upload(r.Context(), user.ID, file, token)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to upload document", err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// GetDocuments lists the current user's stored documents, newest first.
func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	docs, err := h.documentService.ListDocuments(r.Context(), user.ID, token)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to list documents", err)
		return
	}
	// [] rather than null
	if docs == nil {
		docs = make([]*domain.StoredDocument, 0)
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	documentID := mux.Vars(r)["id"]
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	doc, err := h.documentService.GetDocument(r.Context(), user.ID, documentID, token)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	documentID := mux.Vars(r)["id"]
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	if err := h.documentService.DeleteDocument(r.Context(), user.ID, documentID, token); err != nil {
		writeServiceError(w, h.logger, "Failed to delete document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

func (h *DocumentHandler) formFile(r *http.Request, field string) (*domain.InputFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, errors.New("Invalid multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, errors.New("File is required")
	}
	return h.readPart(headers[0])
}

// readPart reads one uploaded part. At most maxFileSize+1 bytes are read so
// the service can still report an oversized file.
func (h *DocumentHandler) readPart(fh *multipart.FileHeader) (*domain.InputFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("Failed to read uploaded file")
	}
	defer f.Close()

	var reader io.Reader = f
	if h.maxFileSize > 0 {
		reader = io.LimitReader(f, h.maxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.New("Failed to read uploaded file")
	}

	return &domain.InputFile{
		Name:     sanitizeFileName(fh.Filename),
		MIMEType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// sanitizeFileName strips any path components from a client supplied name.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}
