package server

import (
	"crypto/sha256"
	"embed"
	"encoding/base64"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"

	"dailies/internal/ctxlog"
)

//go:embed static templates
var assets embed.FS

func dataFile(fsys fs.FS, file string) ([]byte, string) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		panic(fmt.Errorf("server: read data file %q: %w", file, err))
	}

	ct := mime.TypeByExtension(path.Ext(file))

	return content, ct
}

func cachedHandler(content []byte, ct string) http.Handler {
	sum := sha256.Sum256(content)
	etag := `"` + base64.RawURLEncoding.EncodeToString(sum[:16]) + `"`

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("ETag", etag)
		write(w, r, http.StatusOK, content, ct)
	})
}

// statusHandler serves a fixed page with the given status code.
func statusHandler(status int, content []byte, ct string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write(w, r, status, content, ct)
	})
}

func write(w http.ResponseWriter, r *http.Request, status int, content []byte, ct string) {
	if ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(status)
	if _, err := w.Write(content); err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to write response", "error", err)
	}
}

func notFoundHandler(content []byte, ct string) http.Handler {
	return statusHandler(http.StatusNotFound, content, ct)
}

func tooManyRequestsHandler(content []byte, ct string) http.Handler {
	return statusHandler(http.StatusTooManyRequests, content, ct)
}

func internalServerErrorHandler(content []byte, ct string) http.Handler {
	return statusHandler(http.StatusInternalServerError, content, ct)
}
