package models

import "time"

// Classification is the result of one inference call over an uploaded image.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// LocationResult is a drop-off location with its lazily fetched details.
type LocationResult struct {
	LocationID  string  `json:"location_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	Address     string  `json:"address,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Hours       string  `json:"hours,omitempty"`
	URL         string  `json:"url,omitempty"`
}

// Session holds the per-interaction state for one user: the last
// classification, the narrative shown for it, and whatever the user
// entered on the locations form. Nothing here outlives the process.
type Session struct {
	ID             string           `json:"id"`
	Classification *Classification  `json:"classification,omitempty"`
	Narrative      string           `json:"narrative,omitempty"`
	ZIP            string           `json:"zip,omitempty"`
	PredictionOK   *bool            `json:"prediction_correct,omitempty"`
	AllowImages    bool             `json:"allow_images"`
	TrueLabel      string           `json:"true_label,omitempty"`
	SpecificItem   string           `json:"specific_item,omitempty"`
	Submitted      bool             `json:"submitted"`
	Locations      []LocationResult `json:"locations,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`

	// Raw upload kept for the lifetime of the session so it can be
	// submitted to the feedback store on explicit consent.
	ImageData []byte `json:"-"`
	ImageMime string `json:"-"`
}
