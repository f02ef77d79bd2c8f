package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedPublicDir(t *testing.T, server *HTTPServer) string {
	t.Helper()
	dir := server.service.PublicDir()
	files := map[string]string{
		"index.html": "<html><body>public site</body></html>",
		"admin.html": "<html><body>admin panel</body></html>",
		"styles.css": "body { margin: 0; }",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	return dir
}

func TestAdminRouteServesShell(t *testing.T) {
	server := newTestServer(t, &fakeStore{}, "secret")
	seedPublicDir(t, server)

	rr := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "admin panel") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestStaticFileIsServed(t *testing.T) {
	server := newTestServer(t, &fakeStore{}, "secret")
	seedPublicDir(t, server)

	rr := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/styles.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "margin") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestUnknownGetFallsBackToIndex(t *testing.T) {
	server := newTestServer(t, &fakeStore{}, "secret")
	seedPublicDir(t, server)

	for _, path := range []string{"/", "/menu", "/some/deep/page"} {
		rr := doRequest(t, server, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "public site") {
			t.Fatalf("%s: expected index fallback, got %s", path, rr.Body.String())
		}
	}
}

func TestApiPathsDoNotFallBackToIndex(t *testing.T) {
	server := newTestServer(t, &fakeStore{}, "secret")
	seedPublicDir(t, server)

	rr := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	rr = doRequest(t, server, httptest.NewRequest(http.MethodPost, "/menu", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("non-GET should not hit the fallback, got %d", rr.Code)
	}
}

func TestStaticServingRejectsTraversal(t *testing.T) {
	server := newTestServer(t, &fakeStore{}, "secret")
	dir := seedPublicDir(t, server)
	secret := filepath.Join(filepath.Dir(dir), "secret.txt")
	if err := os.WriteFile(secret, []byte("keep out"), 0o644); err != nil {
		t.Fatalf("seed secret: %v", err)
	}

	rr := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/../secret.txt", nil))
	if strings.Contains(rr.Body.String(), "keep out") {
		t.Fatal("path traversal escaped the public dir")
	}
}
