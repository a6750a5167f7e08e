package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenbin-app/greenbin/internal/classifier"
	"github.com/greenbin-app/greenbin/internal/config"
	"github.com/greenbin-app/greenbin/internal/narrative"
)

func newClassifyCmd() *cobra.Command {
	var narrate bool

	cmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Classify a single image from the command line",
		Args:  cobra.ExactArgs(1),
		Example: `  # Classify a photo
  greenbin classify box.jpg

  # Also generate disposal guidance (requires GEMINI_API_KEY)
  greenbin classify box.jpg --narrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			backend, err := classifier.NewONNXBackend(cfg.ModelPath, cfg.ORTLibraryPath)
			if err != nil {
				return err
			}
			defer backend.Close()

			result, err := classifier.New(backend).Classify(data)
			if err != nil {
				return err
			}

			out := map[string]any{
				"label":      result.Label,
				"confidence": result.Confidence,
			}

			if narrate {
				generator := narrative.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
				text, err := generator.Narrate(cmd.Context(), result.Label, result.Confidence)
				if err != nil {
					return err
				}
				out["narrative"] = text
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&narrate, "narrate", false, "Generate disposal guidance for the result")

	return cmd
}
