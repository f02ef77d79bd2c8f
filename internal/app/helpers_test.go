package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hearth/api/internal/auth"
	"hearth/api/internal/config"
	"hearth/api/internal/content"
	"hearth/api/internal/upload"
)

// fakeStore keeps the document in memory and can be forced to fail.
type fakeStore struct {
	doc      content.Document
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeStore) Read(_ context.Context) (content.Document, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.doc == nil {
		return content.Document{}, nil
	}
	return content.Clone(f.doc)
}

func (f *fakeStore) Write(_ context.Context, doc content.Document) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	copied, err := content.Clone(doc)
	if err != nil {
		return err
	}
	f.doc = copied
	return nil
}

func (f *fakeStore) Ping(_ context.Context) error {
	if f.readErr != nil {
		return f.readErr
	}
	return nil
}

func (f *fakeStore) Close() error { return nil }

func newTestService(t *testing.T, fs *fakeStore, adminToken string) *Service {
	t.Helper()
	cfg := config.Load()
	cfg.AdminToken = adminToken
	cfg.PublicDir = t.TempDir()
	uploads := upload.NewService(nil, upload.NewLocalStorage(t.TempDir()))
	return New(cfg, fs, auth.NewGate(adminToken), uploads)
}

func newTestServer(t *testing.T, fs *fakeStore, adminToken string) *HTTPServer {
	t.Helper()
	return NewHTTPServer(newTestService(t, fs, adminToken), "*")
}

func doRequest(t *testing.T, server *HTTPServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

var errStoreDown = errors.New("store down")
