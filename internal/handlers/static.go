package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// The four user-facing views.
var views = map[string]string{
	"/":           "index.html",
	"/locations":  "locations.html",
	"/how-to-use": "how-to-use.html",
	"/about":      "about.html",
}

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if page, ok := views[r.URL.Path]; ok {
		w.Header().Set("Content-Type", "text/html")
		http.ServeFile(w, r, filepath.Join(h.staticDir, page))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/static/")

	// Prevent directory traversal attacks
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFile(w, r, filepath.Join(h.staticDir, path))
}
