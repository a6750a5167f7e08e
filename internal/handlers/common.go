package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/greenbin-app/greenbin/internal/contact"
	"github.com/greenbin-app/greenbin/internal/earth911"
	"github.com/greenbin-app/greenbin/internal/guide"
	"github.com/greenbin-app/greenbin/internal/models"
	"github.com/greenbin-app/greenbin/internal/storage"
)

// Classifier produces a label and confidence for raw image bytes.
type Classifier interface {
	Classify(data []byte) (models.Classification, error)
}

// Narrator generates disposal guidance for a classification.
type Narrator interface {
	Narrate(ctx context.Context, label string, confidence float64) (string, error)
}

// Locator is the Earth911 lookup chain.
type Locator interface {
	MaterialID(ctx context.Context, query string) (int64, bool, error)
	PostalCoordinates(ctx context.Context, zip string) (earth911.Coordinates, bool, error)
	SearchLocations(ctx context.Context, coords earth911.Coordinates, materialID int64) ([]earth911.Location, error)
	LocationDetails(ctx context.Context, locationID string) (earth911.LocationDetail, bool, error)
}

// ImageStore accepts consented misclassified images for retraining.
type ImageStore interface {
	SubmitImage(ctx context.Context, data []byte, label, mimeType string) (string, error)
}

// ContactRelay forwards validated contact-form submissions.
type ContactRelay interface {
	Send(ctx context.Context, m contact.Message) error
}

type Handler struct {
	sessionStore *storage.SessionStore
	classifier   Classifier
	narrator     Narrator
	locator      Locator
	images       ImageStore // nil when no feedback bucket is configured
	contact      ContactRelay
	guide        *guide.Guide
	staticDir    string
}

func New(c Classifier, n Narrator, l Locator, images ImageStore, relay ContactRelay, g *guide.Guide, staticDir string) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		classifier:   c,
		narrator:     n,
		locator:      l,
		images:       images,
		contact:      relay,
		guide:        g,
		staticDir:    staticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeWarning reports a user-correctable problem as JSON so the UI can
// show it inline instead of as a hard failure.
func (h *Handler) writeWarning(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"warning": message}); err != nil {
		slog.Error("Unable to encode warning response", "err", err)
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.Session, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
