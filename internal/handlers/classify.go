package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/greenbin-app/greenbin/internal/classifier"
	"github.com/greenbin-app/greenbin/internal/feedback"
	"github.com/greenbin-app/greenbin/internal/models"
	"github.com/greenbin-app/greenbin/internal/narrative"
)

const maxUploadBytes = 10 * 1024 * 1024

type classifyResponse struct {
	SessionID  string  `json:"session_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Narrative  string  `json:"narrative"`
	Tip        string  `json:"tip,omitempty"`
}

func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Either a JSON request with an image URL or a multipart upload.
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLClassify(w, r)
		return
	}

	h.handleFileClassify(w, r)
}

func (h *Handler) handleURLClassify(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	imageData, mimeType, err := downloadImage(request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to download image: "+err.Error(), http.StatusBadGateway)
		return
	}

	h.classifyAndRespond(w, r, imageData, mimeType)
}

func (h *Handler) handleFileClassify(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeWarning(w, "Please provide an image", http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(fileData)
	}

	h.classifyAndRespond(w, r, fileData, mimeType)
}

func (h *Handler) classifyAndRespond(w http.ResponseWriter, r *http.Request, imageData []byte, mimeType string) {
	result, err := h.classifier.Classify(imageData)
	if err != nil {
		if errors.Is(err, classifier.ErrDecode) {
			h.writeWarning(w, "The image could not be read. Please upload a valid photo.", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Classification failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Image classified", "label", result.Label, "confidence", result.Confidence)

	text, err := h.narrator.Narrate(r.Context(), result.Label, result.Confidence)
	if err != nil {
		h.writeError(w, "Failed to generate disposal guidance: "+err.Error(), http.StatusBadGateway)
		return
	}

	sessionID := fmt.Sprintf("%s_%d", feedback.ContentHash(imageData)[:12], time.Now().Unix())
	session := &models.Session{
		ID:             sessionID,
		Classification: &result,
		Narrative:      text,
		ImageData:      imageData,
		ImageMime:      mimeType,
		CreatedAt:      time.Now(),
	}
	h.sessionStore.Set(sessionID, session)

	if r.URL.Query().Get("stream") == "1" {
		h.streamNarrative(w, r, session)
		return
	}

	h.writeJSON(w, classifyResponse{
		SessionID:  sessionID,
		Label:      result.Label,
		Confidence: result.Confidence,
		Narrative:  text,
		Tip:        h.guide.RandomTip(result.Label),
	})
}

// streamNarrative reveals the narrative word by word at a fixed pace.
// The classification itself travels in headers so the body stays a
// plain text stream.
func (h *Handler) streamNarrative(w http.ResponseWriter, r *http.Request, session *models.Session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeJSON(w, classifyResponse{
			SessionID:  session.ID,
			Label:      session.Classification.Label,
			Confidence: session.Classification.Confidence,
			Narrative:  session.Narrative,
		})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Session-Id", session.ID)
	w.Header().Set("X-Label", session.Classification.Label)
	w.Header().Set("X-Confidence", fmt.Sprintf("%.2f", session.Classification.Confidence))

	for word := range narrative.Pace(r.Context(), session.Narrative, narrative.DefaultWordDelay) {
		if _, err := io.WriteString(w, word); err != nil {
			return
		}
		flusher.Flush()
	}
}

func downloadImage(imageURL string) ([]byte, string, error) {
	resp, err := http.Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(imageData)
	}
	return imageData, mimeType, nil
}
