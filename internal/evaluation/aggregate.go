package evaluation

import "time"

// LabelStats holds per-label accuracy.
type LabelStats struct {
	Total    int     `yaml:"total"`
	Correct  int     `yaml:"correct"`
	Accuracy float64 `yaml:"accuracy"`
}

// Summary aggregates a full evaluation run.
type Summary struct {
	ModelPath      string                `yaml:"model_path"`
	EvaluationDate time.Time             `yaml:"evaluation_date"`
	Total          int                   `yaml:"total"`
	Correct        int                   `yaml:"correct"`
	Failed         int                   `yaml:"failed"`
	Accuracy       float64               `yaml:"accuracy"`
	PerLabel       map[string]LabelStats `yaml:"per_label"`
}

// Aggregate computes overall and per-label accuracy. Samples that
// failed outright count against accuracy but are tallied separately.
func Aggregate(results []Result) Summary {
	summary := Summary{
		EvaluationDate: time.Now(),
		Total:          len(results),
		PerLabel:       make(map[string]LabelStats),
	}

	for _, r := range results {
		stats := summary.PerLabel[r.TrueLabel]
		stats.Total++
		if r.Error != "" {
			summary.Failed++
		} else if r.Correct {
			summary.Correct++
			stats.Correct++
		}
		summary.PerLabel[r.TrueLabel] = stats
	}

	for label, stats := range summary.PerLabel {
		if stats.Total > 0 {
			stats.Accuracy = float64(stats.Correct) / float64(stats.Total)
		}
		summary.PerLabel[label] = stats
	}
	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Total)
	}
	return summary
}
