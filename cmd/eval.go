package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/greenbin-app/greenbin/internal/classifier"
	"github.com/greenbin-app/greenbin/internal/config"
	"github.com/greenbin-app/greenbin/internal/evaluation"
)

func newEvalCmd() *cobra.Command {
	var (
		dataset string
		results string
		summary string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate classifier accuracy against a labeled dataset",
		Long: `Runs the classifier over a labeled image dataset and reports overall
and per-label accuracy.

The dataset is a directory with one subdirectory per label, each
containing images of that label (the Kaggle garbage-classification
layout).`,
		Example: `  # Evaluate against ./dataset and write results
  greenbin eval --dataset ./dataset --results results.parquet --summary summary.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			samples, err := evaluation.LoadDataset(dataset)
			if err != nil {
				return err
			}
			slog.Info("Dataset loaded", "samples", len(samples))

			backend, err := classifier.NewONNXBackend(cfg.ModelPath, cfg.ORTLibraryPath)
			if err != nil {
				return err
			}
			defer backend.Close()

			runResults := evaluation.Run(classifier.New(backend), samples)

			agg := evaluation.Aggregate(runResults)
			agg.ModelPath = cfg.ModelPath
			slog.Info("Evaluation complete",
				"total", agg.Total,
				"correct", agg.Correct,
				"failed", agg.Failed,
				"accuracy", agg.Accuracy,
			)

			if results != "" {
				if err := evaluation.WriteParquet(results, runResults); err != nil {
					return err
				}
				slog.Info("Per-sample results written", "path", results)
			}
			if summary != "" {
				if err := evaluation.WriteSummary(summary, agg); err != nil {
					return err
				}
				slog.Info("Summary written", "path", summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "dataset", "Labeled dataset directory (one subdirectory per label)")
	cmd.Flags().StringVar(&results, "results", "", "Optional parquet file for per-sample results")
	cmd.Flags().StringVar(&summary, "summary", "", "Optional YAML file for the aggregated summary")

	return cmd
}
