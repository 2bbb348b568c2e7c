package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mlmodeld/internal/backend/native"
	"mlmodeld/internal/catalog"
	"mlmodeld/internal/httpapi"
	"mlmodeld/internal/manager"
)

// createTempCatalogDir writes the given name -> content files into a temp
// directory and returns its path.
func createTempCatalogDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write catalog file %s: %v", p, err)
		}
	}
	return dir
}

// newServerForDir builds the daemon stack over a catalog directory. The
// registry is not marked ready; callers do that when they want /readyz up.
func newServerForDir(t *testing.T, catalogDir string) (*httptest.Server, *manager.Registry, *manager.MemoryPublisher) {
	t.Helper()
	pub := manager.NewMemoryPublisher()
	reg := manager.NewWithConfig(manager.RegistryConfig{
		Frameworks: native.Frameworks(),
		Publisher:  pub,
	})
	if catalogDir != "" {
		defs, err := catalog.LoadDir(catalogDir)
		if err != nil {
			t.Fatalf("load catalog: %v", err)
		}
		if _, err := catalog.Apply(context.Background(), reg, defs); err != nil {
			t.Fatalf("apply catalog: %v", err)
		}
	}
	srv := httptest.NewServer(httpapi.NewMux(httpapi.NewService(reg)))
	t.Cleanup(srv.Close)
	return srv, reg, pub
}

func httpDo(t *testing.T, method, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	out, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, out
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	return httpDo(t, http.MethodGet, url, nil)
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	return httpDo(t, http.MethodPost, url, payload)
}
