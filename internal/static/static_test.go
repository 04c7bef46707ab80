package static

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assets = fstest.MapFS{
	"index.html":          {Data: []byte("<html>entry</html>")},
	"index.tsx":           {Data: []byte("render(<App />)")},
	"assets/app.css":      {Data: []byte("body{}")},
	"assets/logo.PNG":     {Data: []byte("png")},
	"assets/data.bin":     {Data: []byte{0x00, 0x01}},
	"assets/nested/x.svg": {Data: []byte("<svg/>")},
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServesFilesWithContentType(t *testing.T) {
	h := NewFS(assets, "")

	tests := []struct {
		target      string
		body        string
		contentType string
	}{
		{"/", "<html>entry</html>", "text/html"},
		{"/index.tsx", "render(<App />)", "text/javascript"},
		{"/assets/app.css?v=3", "body{}", "text/css"},
		{"/assets/logo.PNG", "png", "image/png"},
		{"/assets/data.bin", "\x00\x01", "application/octet-stream"},
		{"/assets/nested/x.svg", "<svg/>", "image/svg+xml"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestFallsBackToEntryDocument(t *testing.T) {
	h := NewFS(assets, "")

	for _, target := range []string{"/result", "/wizard/step/2?x=1", "/assets", "/assets/nested/"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, h, target)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "<html>entry</html>", rec.Body.String())
			assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
		})
	}
}

func TestMissingEntryDocument(t *testing.T) {
	h := NewFS(fstest.MapFS{"app.js": {Data: []byte("x")}}, "")

	rec := get(t, h, "/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())

	rec = get(t, h, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type brokenFS struct {
	fstest.MapFS
	broken string
}

func (b brokenFS) ReadFile(name string) ([]byte, error) {
	if name == b.broken {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrPermission}
	}
	return b.MapFS.ReadFile(name)
}

func TestReadFailure(t *testing.T) {
	h := NewFS(brokenFS{MapFS: assets, broken: "assets/app.css"}, "")

	rec := get(t, h, "/assets/app.css")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error: permission denied", rec.Body.String())
}

func TestNoTraversalOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("entry"), 0o644))

	h := New(root, "index.html")

	for _, target := range []string{"/../secret.txt", "/a/../../secret.txt", "/%2e%2e/secret.txt"} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "entry", rec.Body.String(), target)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpg", ContentType("photo.JPG"))
	assert.Equal(t, "application/json", ContentType("manifest.json"))
	assert.Equal(t, "image/x-icon", ContentType("favicon.ico"))
	assert.Equal(t, "application/octet-stream", ContentType("README"))
}
