package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytbrain/ytbrain/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brainctl",
		Short: "Video transcript ingestion and retrieval",
		Long:  "brainctl acquires a video's spoken content, indexes it, and assembles ranked answer context for free-text questions",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.AskCmd())
	rootCmd.AddCommand(cli.SummaryCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
