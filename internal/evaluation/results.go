package evaluation

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// WriteParquet writes per-sample results as a parquet file.
func WriteParquet(path string, results []Result) error {
	if err := parquet.WriteFile(path, results); err != nil {
		return fmt.Errorf("failed to write parquet results: %w", err)
	}
	return nil
}

// WriteSummary writes the aggregated summary as YAML.
func WriteSummary(path string, summary Summary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
