package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenbin-app/greenbin/internal/earth911"
	"github.com/greenbin-app/greenbin/internal/feedback"
	"github.com/greenbin-app/greenbin/internal/models"
)

type locationsRequest struct {
	SessionID         string `json:"session_id"`
	ZIP               string `json:"zip"`
	PredictionCorrect *bool  `json:"prediction_correct"`
	AllowImages       bool   `json:"allow_images"`
	TrueLabel         string `json:"true_label"`
	SpecificItem      string `json:"specific_item"`
}

// Outcome tags for the locations flow. Absence outcomes are normal
// responses, not errors.
const (
	statusOK          = "ok"
	statusZIPNotFound = "zip_not_found"
	statusNoMaterial  = "no_material"
	statusNoLocations = "no_locations"
)

type locationsResponse struct {
	Status    string                  `json:"status"`
	Message   string                  `json:"message,omitempty"`
	Feedback  string                  `json:"feedback,omitempty"`
	Locations []models.LocationResult `json:"locations,omitempty"`
}

// HandleLocations runs the locations flow for an existing session:
// validate the ZIP, resolve coordinates, optionally submit the image to
// the feedback store, resolve the material, search drop-off locations,
// and fetch per-location details.
func (h *Handler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req locationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	session, ok := h.getSessionOrError(w, req.SessionID)
	if !ok {
		return
	}
	if session.Classification == nil {
		h.writeWarning(w, "Please upload an image on the Home page first", http.StatusBadRequest)
		return
	}

	// Malformed ZIPs never reach the network.
	if !earth911.ValidZIP(req.ZIP) {
		h.writeWarning(w, "Please enter a valid 5-digit ZIP code.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	coords, found, err := h.locator.PostalCoordinates(ctx, req.ZIP)
	if err != nil {
		h.writeError(w, "Earth911 API request failed. Please report this on the About page.", http.StatusBadGateway)
		return
	}
	if !found {
		h.writeJSON(w, locationsResponse{
			Status:  statusZIPNotFound,
			Message: "ZIP code not found. Please enter a valid U.S. ZIP code.",
		})
		return
	}

	// Record the user's answers on the session before anything else can
	// fail; the flags drive the feedback submission below.
	session.ZIP = req.ZIP
	session.PredictionOK = req.PredictionCorrect
	session.AllowImages = req.AllowImages
	session.SpecificItem = req.SpecificItem
	session.TrueLabel = req.TrueLabel
	if session.TrueLabel == "" || (req.PredictionCorrect != nil && *req.PredictionCorrect) {
		session.TrueLabel = session.Classification.Label
	}
	session.Submitted = true

	feedbackNote := h.maybeSubmitFeedback(r, session, req)

	materialID, found, err := h.locator.MaterialID(ctx, req.SpecificItem)
	if err != nil {
		h.writeError(w, "Earth911 API request failed. Please report this on the About page.", http.StatusBadGateway)
		return
	}
	if !found {
		h.writeJSON(w, locationsResponse{
			Status:   statusNoMaterial,
			Message:  "Please throw away trash through curbside pickup",
			Feedback: feedbackNote,
		})
		return
	}

	locations, err := h.locator.SearchLocations(ctx, coords, materialID)
	if err != nil {
		h.writeError(w, "Earth911 API request failed. Please report this on the About page.", http.StatusBadGateway)
		return
	}
	if len(locations) == 0 {
		h.writeJSON(w, locationsResponse{
			Status:   statusNoLocations,
			Message:  "No nearby locations accept this item.",
			Feedback: feedbackNote,
		})
		return
	}

	results := make([]models.LocationResult, 0, len(locations))
	for _, loc := range locations {
		result := models.LocationResult{
			LocationID:  loc.LocationID,
			Latitude:    loc.Latitude,
			Longitude:   loc.Longitude,
			Description: loc.Description,
		}
		detail, found, err := h.locator.LocationDetails(ctx, loc.LocationID)
		if err != nil {
			// Details are additive; a failed fetch leaves the marker usable.
			slog.Error("Failed to fetch location details", "location_id", loc.LocationID, "err", err)
		} else if found {
			result.Address = detail.Address
			result.Phone = detail.Phone
			result.Hours = detail.Hours
			result.URL = detail.URL
		}
		results = append(results, result)
	}

	session.Locations = results
	h.sessionStore.Set(session.ID, session)

	h.writeJSON(w, locationsResponse{
		Status:    statusOK,
		Feedback:  feedbackNote,
		Locations: results,
	})
}

// maybeSubmitFeedback uploads the session image to the feedback store
// when the user marked the prediction wrong and consented to sharing.
// Failures are reported in the response but never abort the flow.
func (h *Handler) maybeSubmitFeedback(r *http.Request, session *models.Session, req locationsRequest) string {
	misclassified := req.PredictionCorrect != nil && !*req.PredictionCorrect
	if !misclassified || !req.AllowImages {
		return ""
	}
	if h.images == nil {
		slog.Warn("Feedback image consented but no image store is configured")
		return ""
	}
	if len(session.ImageData) == 0 {
		return ""
	}

	key, err := h.images.SubmitImage(r.Context(), session.ImageData, session.TrueLabel, session.ImageMime)
	if errors.Is(err, feedback.ErrDuplicate) {
		return "Image already uploaded"
	}
	if err != nil {
		slog.Error("Failed to store feedback image", "err", err)
		return "Could not store your image this time"
	}

	slog.Info("Feedback image stored", "key", key, "label", session.TrueLabel)
	return "Thanks! Your image may help the AI get smarter over time."
}
