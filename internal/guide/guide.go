// Package guide serves the static disposal knowledge that ships with
// the app: per-label tips and the Earth911 sub-item catalog used on the
// locations form.
package guide

import (
	_ "embed"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

//go:embed guide.yaml
var rawGuide []byte

type Guide struct {
	Tips  map[string][]string `yaml:"tips"`
	Items map[string][]string `yaml:"items"`
}

// Load parses the embedded guide data.
func Load() (*Guide, error) {
	var g Guide
	if err := yaml.Unmarshal(rawGuide, &g); err != nil {
		return nil, fmt.Errorf("failed to parse guide data: %w", err)
	}
	if len(g.Tips) == 0 || len(g.Items) == 0 {
		return nil, fmt.Errorf("guide data incomplete: %d tip labels, %d item labels", len(g.Tips), len(g.Items))
	}
	return &g, nil
}

// RandomTip returns one tip for the label, or "" for unknown labels.
func (g *Guide) RandomTip(label string) string {
	tips := g.Tips[label]
	if len(tips) == 0 {
		return ""
	}
	return tips[rand.Intn(len(tips))]
}

// ItemsFor lists the Earth911 sub-item options for a label.
func (g *Guide) ItemsFor(label string) []string {
	return g.Items[label]
}
