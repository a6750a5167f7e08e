// Package evaluation measures classifier accuracy against a labeled
// image dataset laid out as one directory per label.
package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sample is one labeled image on disk.
type Sample struct {
	Path  string
	Label string
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// LoadDataset walks root, treating each immediate subdirectory as a
// label and each image file inside it as a sample of that label.
func LoadDataset(root string) ([]Sample, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset root: %w", err)
	}

	var samples []Sample
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := entry.Name()

		files, err := os.ReadDir(filepath.Join(root, label))
		if err != nil {
			return nil, fmt.Errorf("failed to read label directory %s: %w", label, err)
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(file.Name()))] {
				continue
			}
			samples = append(samples, Sample{
				Path:  filepath.Join(root, label, file.Name()),
				Label: label,
			})
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no labeled images found under %s", root)
	}
	return samples, nil
}
