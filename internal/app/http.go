package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hearth/api/internal/auth"
	"hearth/api/internal/content"
	"hearth/api/internal/editor"
)

// maxUploadBytes caps multipart parsing; the content document itself stays
// far below this.
const maxUploadBytes = 10 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/content" {
		doc, err := s.service.Content(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}

	if r.Method == http.MethodPut && r.URL.Path == "/api/content" {
		var doc content.Document
		if err := decodeBody(r, &doc); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if doc == nil {
			doc = content.Document{}
		}
		if err := s.service.ReplaceContent(r.Context(), r.Header.Get("Authorization"), doc); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Content updated",
			"content": doc,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/upload" {
		s.handleUpload(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/site-content.js" {
		script, err := s.service.SiteContentScript(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(script))
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/admin" {
		http.ServeFile(w, r, filepath.Join(s.service.PublicDir(), "admin.html"))
		return
	}

	parts := splitPath(r.URL.Path)

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "admin" && parts[2] == "sessions" {
		s.routeEditorSessions(w, r, parts[3:])
		return
	}

	// Anything else that is a GET outside /api serves the public site, with
	// index.html as the catch-all.
	if r.Method == http.MethodGet && !strings.HasPrefix(r.URL.Path, "/api") {
		s.serveStatic(w, r)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) routeEditorSessions(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) == 0 {
		if r.Method == http.MethodPost {
			view, err := s.service.CreateEditorSession(r.Context())
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, view)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	sessionID := rest[0]
	rest = rest[1:]

	var (
		view EditorSessionView
		err  error
	)

	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		view, err = s.service.EditorSession(sessionID)

	case len(rest) == 0 && r.Method == http.MethodDelete:
		// Discarding a session drops its unsaved edits, like closing the panel.
		s.service.sessions.Delete(sessionID)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return

	case len(rest) == 1 && rest[0] == "reload" && r.Method == http.MethodPost:
		view, err = s.service.ReloadEditorSession(r.Context(), sessionID)

	case len(rest) == 1 && rest[0] == "fields" && r.Method == http.MethodPatch:
		var body struct {
			Path    string `json:"path"`
			Value   any    `json:"value"`
			Numeric bool   `json:"numeric"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		view, err = s.service.SetEditorField(sessionID, body.Path, body.Value, body.Numeric)

	case len(rest) == 3 && rest[0] == "collections" && rest[2] == "items" && r.Method == http.MethodPost:
		view, err = s.service.AppendEditorItem(sessionID, rest[1])

	case len(rest) == 4 && rest[0] == "collections" && rest[2] == "items" && r.Method == http.MethodPatch:
		index, parseErr := strconv.Atoi(rest[3])
		if parseErr != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "index must be an integer", nil)
			return
		}
		var body struct {
			Field string `json:"field"`
			Value any    `json:"value"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		view, err = s.service.SetEditorItemField(sessionID, rest[1], index, body.Field, body.Value)

	case len(rest) == 4 && rest[0] == "collections" && rest[2] == "items" && r.Method == http.MethodDelete:
		index, parseErr := strconv.Atoi(rest[3])
		if parseErr != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "index must be an integer", nil)
			return
		}
		view, err = s.service.RemoveEditorItem(sessionID, rest[1], index)

	case len(rest) == 1 && rest[0] == "raw" && r.Method == http.MethodPut:
		var body struct {
			Raw string `json:"raw"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		view, err = s.service.SyncEditorRaw(sessionID, body.Raw)

	case len(rest) == 1 && rest[0] == "save" && r.Method == http.MethodPost:
		view, err = s.service.SaveEditorSession(r.Context(), r.Header.Get("Authorization"), sessionID)

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "NO_FILE", "No file uploaded", nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "NO_FILE", "No file uploaded", nil)
		return
	}
	defer file.Close()

	path, err := s.service.SaveUpload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"filePath": path})
}

func (s *HTTPServer) serveStatic(w http.ResponseWriter, r *http.Request) {
	publicDir := s.service.PublicDir()
	requested := filepath.Join(publicDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}
	http.ServeFile(w, r, filepath.Join(publicDir, "index.html"))
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, editor.ErrSessionNotFound) {
		return http.StatusNotFound, "SESSION_NOT_FOUND", "Editing session not found", nil
	}
	if errors.Is(err, editor.ErrNotLoaded) {
		return http.StatusConflict, "NOT_LOADED", "No document loaded in this session", nil
	}
	if errors.Is(err, editor.ErrInvalidJSON) {
		return http.StatusUnprocessableEntity, "INVALID_JSON", "Invalid JSON", nil
	}
	if errors.Is(err, auth.ErrUnauthorized) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
