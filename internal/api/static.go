package api

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

func (s *Server) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.assets == nil {
			http.NotFound(w, r)
			return
		}
		if _, err := fs.Stat(s.assets, name); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, s.assets, name)
	}
}

// AssetHandler serves the embedded UI files. Directories and missing files
// are 404.
func (s *Server) AssetHandler(w http.ResponseWriter, r *http.Request) {
	if s.assets == nil || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		http.NotFound(w, r)
		return
	}

	info, err := fs.Stat(s.assets, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WithError(err).WithField("asset", name).Error("failed to stat asset")
		}
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFileFS(w, r, s.assets, name)
}
