// Package narrative turns a classification result into friendly
// disposal guidance using Google Gemini.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces disposal guidance for a classified item.
type Generator struct {
	apiKey string
	model  string
}

func NewGenerator(apiKey, model string) *Generator {
	return &Generator{apiKey: apiKey, model: model}
}

// Narrate builds the disposal prompt for the given label and confidence
// and generates the response text with Gemini.
func (g *Generator) Narrate(ctx context.Context, label string, confidence float64) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(label, confidence)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// DefaultWordDelay is the pacing between words when a narrative is
// revealed incrementally. Purely presentational.
const DefaultWordDelay = 80 * time.Millisecond

// Pace emits the words of text one at a time with a constant delay,
// each with a trailing space. The channel closes when the text is
// exhausted or ctx is cancelled.
func Pace(ctx context.Context, text string, delay time.Duration) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for _, word := range strings.Split(text, " ") {
			select {
			case out <- word + " ":
			case <-ctx.Done():
				return
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
