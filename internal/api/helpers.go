package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"svgshare/internal/storage"

	"github.com/go-chi/chi/v5"
)

const blobCSP = "default-src 'none'; style-src 'unsafe-inline'; sandbox"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func humanBytes(n int64) string {
	const mb = 1024 * 1024
	switch {
	case n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n%1024 == 0:
		return fmt.Sprintf("%dKB", n/1024)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func etagMatches(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// writeBlob streams an SVG object with headers that keep any embedded script
// from running on our origin.
func writeBlob(w http.ResponseWriter, r *http.Request, obj *storage.Object, filename string) error {
	defer obj.Body.Close()

	h := w.Header()
	h.Set("Content-Type", "image/svg+xml")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", blobCSP)
	h.Set("Cache-Control", "no-cache")
	if obj.ETag != "" {
		h.Set("ETag", obj.ETag)
	}
	if filename != "" {
		if disposition := mime.FormatMediaType("inline", map[string]string{"filename": filename}); disposition != "" {
			h.Set("Content-Disposition", disposition)
		}
	}

	if etagMatches(r.Header.Get("If-None-Match"), obj.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	h.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return nil
	}
	_, err := io.Copy(w, obj.Body)
	return err
}
