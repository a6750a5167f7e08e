package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greenbin",
		Short: "Waste classification service with AI-generated disposal guidance",
		Long: `Green Bin classifies a photo of a waste item into one of twelve material
categories, generates disposal guidance with an LLM, and finds nearby
drop-off recycling locations through the Earth911 search API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
