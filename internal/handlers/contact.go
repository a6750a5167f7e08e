package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenbin-app/greenbin/internal/contact"
)

func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg contact.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.contact.Send(r.Context(), msg); err != nil {
		if isValidationError(err) {
			h.writeWarning(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, "There was an error sending your message.", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, map[string]string{"message": "Your message has been sent successfully!"})
}

func isValidationError(err error) bool {
	return errors.Is(err, contact.ErrMissingName) ||
		errors.Is(err, contact.ErrMissingEmail) ||
		errors.Is(err, contact.ErrInvalidEmail) ||
		errors.Is(err, contact.ErrMissingMessage)
}
