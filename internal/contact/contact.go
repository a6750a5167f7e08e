// Package contact relays contact-form submissions to a webhook after
// local validation. Nothing leaves the process until the form passes.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

var (
	ErrMissingName    = errors.New("please provide your name")
	ErrMissingEmail   = errors.New("please provide your email address")
	ErrInvalidEmail   = errors.New("please provide a valid email address")
	ErrMissingMessage = errors.New("please provide a message")
)

// Message is one contact-form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate checks the form fields in display order and returns the
// first problem found.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(m.Email) == "" {
		return ErrMissingEmail
	}
	if !emailPattern.MatchString(m.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(m.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// Relay posts validated messages to the configured webhook.
type Relay struct {
	WebhookURL string
	httpClient *http.Client
}

func NewRelay(webhookURL string) *Relay {
	return &Relay{
		WebhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send validates the message and posts it as JSON. Validation failures
// return before any network activity.
func (r *Relay) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if r.WebhookURL == "" {
		return errors.New("no contact webhook configured")
	}

	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
