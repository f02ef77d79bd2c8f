// Package app wires the content store, authorization gate, upload storage
// and editor sessions behind the HTTP surface.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hearth/api/internal/auth"
	"hearth/api/internal/config"
	"hearth/api/internal/content"
	"hearth/api/internal/editor"
	"hearth/api/internal/store"
	"hearth/api/internal/upload"
)

type Service struct {
	cfg      config.Config
	store    store.Store
	gate     *auth.Gate
	uploads  *upload.Service
	sessions *editor.Store
}

func New(cfg config.Config, st store.Store, gate *auth.Gate, uploads *upload.Service) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		gate:     gate,
		uploads:  uploads,
		sessions: editor.NewStore(cfg.MaxSessions, cfg.SessionTTL),
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) PublicDir() string {
	return s.cfg.PublicDir
}

// Content returns the full persisted document. Store failures surface as
// server errors; a default document is never substituted.
func (s *Service) Content(ctx context.Context) (content.Document, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, domainError(http.StatusInternalServerError, "STORE_ERROR", "Unable to load content", nil)
	}
	return doc, nil
}

// ReplaceContent authorizes the credential and replaces the whole persisted
// document. The body is stored verbatim; defaulting is the editor's job, not
// the store's.
func (s *Service) ReplaceContent(ctx context.Context, authHeader string, doc content.Document) error {
	if err := s.gate.Authorize(authHeader); err != nil {
		return domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	}
	if err := s.store.Write(ctx, doc); err != nil {
		return domainError(http.StatusInternalServerError, "STORE_ERROR", "Unable to update content", nil)
	}
	return nil
}

// SiteContentScript renders the document as a script that seeds the public
// page without a fetch round-trip.
func (s *Service) SiteContentScript(ctx context.Context) (string, error) {
	doc, err := s.Content(ctx)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", domainError(http.StatusInternalServerError, "STORE_ERROR", "Unable to load content", nil)
	}
	return fmt.Sprintf("window.__SITE_CONTENT = %s;\n", encoded), nil
}

// SaveUpload stores one uploaded image and returns the relative path the
// caller folds into the document on its next save.
func (s *Service) SaveUpload(ctx context.Context, filename string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	path, err := s.uploads.Save(ctx, filename, body, size, contentType)
	if err != nil {
		return "", domainError(http.StatusInternalServerError, "UPLOAD_ERROR", "Unable to store upload", nil)
	}
	return path, nil
}

// EditorSessionView is the session snapshot returned to the admin panel.
type EditorSessionView struct {
	SessionID string           `json:"sessionId"`
	State     string           `json:"state"`
	Content   content.Document `json:"content"`
	Raw       string           `json:"raw,omitempty"`
}

// CreateEditorSession opens a session and loads the current document into
// it. A session is never handed out half-initialized: a failed load discards
// it.
func (s *Service) CreateEditorSession(ctx context.Context) (EditorSessionView, error) {
	doc, err := s.Content(ctx)
	if err != nil {
		return EditorSessionView{}, err
	}
	sess := s.sessions.Create()
	if err := sess.Load(doc); err != nil {
		s.sessions.Delete(sess.ID)
		return EditorSessionView{}, domainError(http.StatusInternalServerError, "SERVER_ERROR", "Could not open editing session", nil)
	}
	return s.viewOf(sess)
}

// EditorSession returns the snapshot of an existing session.
func (s *Service) EditorSession(id string) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	return s.viewOf(sess)
}

// ReloadEditorSession pulls the persisted document back into the session,
// discarding unsaved edits wholesale.
func (s *Service) ReloadEditorSession(ctx context.Context, id string) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	doc, err := s.Content(ctx)
	if err != nil {
		return EditorSessionView{}, err
	}
	if err := sess.Load(doc); err != nil {
		return EditorSessionView{}, domainError(http.StatusInternalServerError, "SERVER_ERROR", "Could not reload session", nil)
	}
	return s.viewOf(sess)
}

// SetEditorField writes one bound form value into the session's working copy.
func (s *Service) SetEditorField(id, path string, value any, numeric bool) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	if path == "" {
		return EditorSessionView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "path is required", nil)
	}
	if err := sess.SetField(path, value, numeric); err != nil {
		return EditorSessionView{}, err
	}
	return s.viewOf(sess)
}

// AppendEditorItem pushes a collection's default record.
func (s *Service) AppendEditorItem(id, collectionName string) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	collection, err := content.ParseCollection(collectionName)
	if err != nil {
		return EditorSessionView{}, domainError(http.StatusNotFound, "UNKNOWN_COLLECTION", err.Error(), nil)
	}
	if _, err := sess.AppendItem(collection); err != nil {
		return EditorSessionView{}, err
	}
	return s.viewOf(sess)
}

// RemoveEditorItem deletes one element by index. The response carries the
// whole collection state because indices shift and bound UI must rebuild.
func (s *Service) RemoveEditorItem(id, collectionName string, index int) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	collection, err := content.ParseCollection(collectionName)
	if err != nil {
		return EditorSessionView{}, domainError(http.StatusNotFound, "UNKNOWN_COLLECTION", err.Error(), nil)
	}
	if err := sess.RemoveItem(collection, index); err != nil {
		if err == editor.ErrNotLoaded {
			return EditorSessionView{}, err
		}
		return EditorSessionView{}, domainError(http.StatusUnprocessableEntity, "INDEX_OUT_OF_RANGE", err.Error(), nil)
	}
	return s.viewOf(sess)
}

// SetEditorItemField writes one field of a collection element by index.
func (s *Service) SetEditorItemField(id, collectionName string, index int, field string, value any) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	collection, err := content.ParseCollection(collectionName)
	if err != nil {
		return EditorSessionView{}, domainError(http.StatusNotFound, "UNKNOWN_COLLECTION", err.Error(), nil)
	}
	if err := sess.SetItemField(collection, index, field, value); err != nil {
		if err == editor.ErrNotLoaded {
			return EditorSessionView{}, err
		}
		return EditorSessionView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	}
	return s.viewOf(sess)
}

// SyncEditorRaw replaces the working copy from pasted JSON text, rejecting
// invalid JSON without touching the prior state.
func (s *Service) SyncEditorRaw(id, raw string) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	if err := sess.SyncRaw(raw); err != nil {
		return EditorSessionView{}, err
	}
	return s.viewOf(sess)
}

// SaveEditorSession pushes the session's whole working copy to the store
// under authorization.
func (s *Service) SaveEditorSession(ctx context.Context, authHeader, id string) (EditorSessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return EditorSessionView{}, err
	}
	if err := s.gate.Authorize(authHeader); err != nil {
		return EditorSessionView{}, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	}
	if err := sess.Save(ctx, s.store); err != nil {
		if err == editor.ErrNotLoaded {
			return EditorSessionView{}, err
		}
		return EditorSessionView{}, domainError(http.StatusInternalServerError, "STORE_ERROR", "Unable to update content", nil)
	}
	return s.viewOf(sess)
}

func (s *Service) viewOf(sess *editor.Session) (EditorSessionView, error) {
	doc, err := sess.Content()
	if err != nil {
		return EditorSessionView{}, err
	}
	return EditorSessionView{
		SessionID: sess.ID,
		State:     sess.State(),
		Content:   doc,
		Raw:       sess.Raw(),
	}, nil
}
