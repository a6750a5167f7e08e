package handlers

import (
	"net/http"

	"github.com/greenbin-app/greenbin/internal/classifier"
)

// HandleGuide exposes the static disposal knowledge the UI needs to
// render the locations form: the label enumeration, tips, and the
// Earth911 sub-item options per category.
func (h *Handler) HandleGuide(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, map[string]any{
		"labels": classifier.Labels,
		"tips":   h.guide.Tips,
		"items":  h.guide.Items,
	})
}
