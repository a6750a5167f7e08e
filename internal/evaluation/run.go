package evaluation

import (
	"os"
	"time"

	"log/slog"

	"github.com/greenbin-app/greenbin/internal/models"
)

// Classifier is the slice of the classifier the evaluator needs.
type Classifier interface {
	Classify(data []byte) (models.Classification, error)
}

// Result records the outcome for one sample. The parquet tags define
// the results-file schema.
type Result struct {
	Path       string  `parquet:"path"`
	TrueLabel  string  `parquet:"true_label"`
	Predicted  string  `parquet:"predicted"`
	Confidence float64 `parquet:"confidence"`
	Correct    bool    `parquet:"correct"`
	Error      string  `parquet:"error,optional"`
	ElapsedMS  int64   `parquet:"elapsed_ms"`
}

// Run classifies every sample and records per-sample outcomes. Failures
// on individual samples are recorded, not fatal.
func Run(c Classifier, samples []Sample) []Result {
	results := make([]Result, 0, len(samples))
	for _, sample := range samples {
		result := Result{Path: sample.Path, TrueLabel: sample.Label}

		data, err := os.ReadFile(sample.Path)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		start := time.Now()
		classification, err := c.Classify(data)
		result.ElapsedMS = time.Since(start).Milliseconds()
		if err != nil {
			slog.Warn("Sample failed to classify", "path", sample.Path, "err", err)
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Predicted = classification.Label
		result.Confidence = classification.Confidence
		result.Correct = classification.Label == sample.Label
		results = append(results, result)
	}
	return results
}
