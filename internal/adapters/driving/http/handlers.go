package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk
const multipartMemory = 32 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Detail string `json:"detail" example:"No session found"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ReadyResponse reports backend and gateway availability
// @Description Readiness report
type ReadyResponse struct {
	Status     string            `json:"status" example:"ready"`
	Storage    string            `json:"storage" example:"redis"`
	Checks     map[string]string `json:"checks,omitempty"`
	Embedding  bool              `json:"embedding"`
	Completion bool              `json:"completion"`
	CanProcess bool              `json:"can_process"` // /process_pdfs can build embeddings
	CanAnswer  bool              `json:"can_answer"`  // /query can run the retrieval path
}

// SessionResponse is returned by the upload and process endpoints
// @Description Operation result bound to a session
type SessionResponse struct {
	Message   string `json:"message" example:"Vector embeddings created"`
	SessionID string `json:"session_id" example:"2f1e4a7c-..."`
}

// ProcessRequest is the optional body of /process_pdfs
type ProcessRequest struct {
	SessionID string `json:"session_id"`
}

// AnswerResponse carries the answer to a query
// @Description Query answer
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the storage backend and reports gateway availability
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string)}
	status := http.StatusOK

	for name, p := range s.pingers {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if s.services != nil {
		cfg := s.services.Config()
		resp.Storage = cfg.StorageBackend
		resp.Embedding = cfg.EmbeddingAvailable()
		resp.Completion = cfg.CompletionAvailable()
		resp.CanProcess = cfg.CanProcess()
		resp.CanAnswer = cfg.CanAnswer()
	}

	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.cfg.Version})
}

// handleSwaggerDoc serves the registered OpenAPI document
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "API documentation not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// Document QA endpoints

// handleUploadPDFs godoc
// @Summary      Upload documents
// @Description  Extracts and stores the text of each file under the caller's session
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Documents to upload (repeatable)"
// @Success      200    {object}  SessionResponse
// @Failure      500    {object}  ErrorResponse  "Upload failed"
// @Router       /upload_pdfs [post]
func (s *Server) handleUploadPDFs(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())
	if sessionID == "" {
		sessionID = domain.NewSessionID()
	}
	// The cookie is issued even when the upload fails; filenames are already registered
	if err := s.setSessionCookie(w, sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	files, err := readUploadedFiles(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
		return
	}

	result, err := s.docService.Upload(r.Context(), sessionID, files)
	if err != nil {
		writeError(w, statusFor(err), "Upload failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Message:   fmt.Sprintf("Uploaded %d PDFs successfully", len(files)),
		SessionID: result.SessionID,
	})
}

// handleProcessPDFs godoc
// @Summary      Build embeddings
// @Description  Rebuilds the vector index from the session's uploaded documents
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      ProcessRequest  false  "Fallback session id"
// @Success      200      {object}  SessionResponse
// @Failure      400      {object}  ErrorResponse  "No PDFs to process"
// @Failure      500      {object}  ErrorResponse  "Embedding creation failed"
// @Failure      504      {object}  ErrorResponse  "Gateway timeout"
// @Router       /process_pdfs [post]
func (s *Server) handleProcessPDFs(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())
	if sessionID == "" {
		var req ProcessRequest
		// The body is optional; a malformed one is treated as absent
		_ = json.NewDecoder(r.Body).Decode(&req)
		sessionID = req.SessionID
	}
	if sessionID == "" {
		sessionID = domain.NewSessionID()
		if err := s.setSessionCookie(w, sessionID); err != nil {
			writeError(w, http.StatusInternalServerError, "Embedding creation failed: "+err.Error())
			return
		}
	}

	result, err := s.processingService.Process(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocuments) {
			writeError(w, http.StatusBadRequest, "No PDFs to process")
			return
		}
		writeError(w, statusFor(err), "Embedding creation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Message:   "Vector embeddings created",
		SessionID: result.SessionID,
	})
}

// handleQuery godoc
// @Summary      Ask a question
// @Description  Answers a query from the session's documents and recent history
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      domain.QueryRequest  true  "Query and pipeline toggles"
// @Success      200      {object}  AnswerResponse
// @Failure      400      {object}  ErrorResponse  "No session found or query is required"
// @Failure      500      {object}  ErrorResponse  "Query failed"
// @Failure      504      {object}  ErrorResponse  "Gateway timeout"
// @Router       /query [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "No session found")
		return
	}

	var req domain.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.queryService.Answer(r.Context(), sessionID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionRequired):
			writeError(w, http.StatusBadRequest, "No session found")
		case errors.Is(err, domain.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "Query is required")
		default:
			writeError(w, statusFor(err), "Query failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{Answer: result.Answer})
}

// Helper functions

// readUploadedFiles collects the repeated "files" form field.
// A request that is not multipart carries no files.
func readUploadedFiles(r *http.Request) ([]domain.UploadedFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	headers := r.MultipartForm.File["files"]
	files := make([]domain.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, domain.UploadedFile{
			Filename:    fh.Filename,
			ContentType: partContentType(fh),
			Data:        data,
		})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// partContentType prefers the declared type, then the file extension
func partContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(fh.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string) error {
	token, err := s.tokens.Issue(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// statusFor maps a service error to the response status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Detail: message})
}
