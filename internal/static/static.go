// Package static serves the single-page front end. Unknown paths fall back
// to the entry document so client-side routes resolve.
package static

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/terra-clan/nebula-guide/internal/metrics"
)

// DefaultIndex is the entry document served for "/" and as the fallback
const DefaultIndex = "index.html"

var mimeTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".ts":   "text/javascript",
	".tsx":  "text/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpg",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ContentType maps a file name to the content type sent with it
func ContentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Handler serves files from an asset root
type Handler struct {
	fsys  fs.FS
	index string
}

// New serves the directory root
func New(root, index string) *Handler {
	return NewFS(os.DirFS(root), index)
}

// NewFS serves fsys
func NewFS(fsys fs.FS, index string) *Handler {
	if index == "" {
		index = DefaultIndex
	}
	return &Handler{fsys: fsys, index: index}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := h.resolve(r.URL.Path)

	info, err := fs.Stat(h.fsys, name)
	if err != nil || !info.Mode().IsRegular() {
		h.serveIndex(w)
		return
	}

	content, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		slog.Error("failed to read asset", "path", name, "error", err)
		metrics.RecordAssetResponse("error")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Server Error: " + reason(err)))
		return
	}

	metrics.RecordAssetResponse("file")
	w.Header().Set("Content-Type", ContentType(name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// resolve maps a URL path to a name inside the root. Cleaning against "/"
// drops any ".." that would climb above it.
func (h *Handler) resolve(urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		return h.index
	}
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return h.index
	}
	return name
}

func (h *Handler) serveIndex(w http.ResponseWriter) {
	content, err := fs.ReadFile(h.fsys, h.index)
	if err != nil {
		slog.Warn("entry document unavailable", "index", h.index, "error", err)
		metrics.RecordAssetResponse("missing")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not Found"))
		return
	}

	metrics.RecordAssetResponse("fallback")
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func reason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
