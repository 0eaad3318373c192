package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytbrain/ytbrain/internal/config"
	"github.com/ytbrain/ytbrain/internal/domain"
	"github.com/ytbrain/ytbrain/internal/telemetry"
)

// IngestCmd returns the ingest command.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <url-or-id>",
		Short: "Acquire and index a video's transcript",
		Long:  "Run the acquisition fallback chain for a video, chunk the transcript, and build its semantic index",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, shutdown, err := setup()
	if err != nil {
		return err
	}
	defer shutdown()

	videoID, err := domain.ExtractVideoID(args[0])
	if err != nil {
		return err
	}

	status, err := app.Ingest.Ingest(ctx, videoID)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", videoID, err)
	}

	chunks, _ := app.Ingest.Chunks(videoID)

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "json" {
		return printJSON(map[string]any{
			"video_id":    videoID,
			"status":      status.String(),
			"chunk_count": len(chunks),
		})
	}

	fmt.Printf("Video:  %s\n", videoID)
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Chunks: %d\n", len(chunks))
	return nil
}

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <url-or-id>",
		Short: "Show a video's ingestion status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, shutdown, err := setup()
			if err != nil {
				return err
			}
			defer shutdown()

			videoID, err := domain.ExtractVideoID(args[0])
			if err != nil {
				return err
			}

			fmt.Println(app.Ingest.Status(videoID))
			return nil
		},
	}
}

// AskCmd returns the ask command.
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <url-or-id> <question>",
		Short: "Retrieve answer context for a question about a video",
		Long:  "Ingest the video if needed, then assemble the ranked chunk context a language model would answer from",
		Args:  cobra.ExactArgs(2),
		RunE:  runAsk,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, shutdown, err := setup()
	if err != nil {
		return err
	}
	defer shutdown()

	videoID, err := domain.ExtractVideoID(args[0])
	if err != nil {
		return err
	}
	question := args[1]

	if _, err := app.Ingest.Ingest(ctx, videoID); err != nil {
		return fmt.Errorf("ingest %s: %w", videoID, err)
	}

	chunks, err := app.Retrieval.Retrieve(ctx, videoID, question)
	if err != nil {
		return err
	}
	window := app.Retrieval.ContextWindow(chunks)

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "json" {
		sources := make([]map[string]any, len(chunks))
		for i, c := range chunks {
			sources[i] = map[string]any{
				"chunk_index": c.ChunkIndex,
				"start_time":  c.StartTime,
				"text":        c.Text,
			}
		}
		return printJSON(map[string]any{
			"video_id": videoID,
			"context":  window,
			"sources":  sources,
		})
	}

	fmt.Println(window)
	fmt.Println("--- sources ---")
	for _, c := range chunks {
		preview := c.Text
		if len(preview) > 100 {
			preview = preview[:100]
		}
		fmt.Printf("[%d] t=%.0fs %s\n", c.ChunkIndex, c.StartTime, preview)
	}
	return nil
}

// SummaryCmd returns the summary command.
func SummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <url-or-id>",
		Short: "Compute a structured summary of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, shutdown, err := setup()
			if err != nil {
				return err
			}
			defer shutdown()

			if app.Summary == nil {
				return fmt.Errorf("summaries require GROQ_API_KEY to be configured")
			}

			videoID, err := domain.ExtractVideoID(args[0])
			if err != nil {
				return err
			}

			if _, err := app.Ingest.Ingest(ctx, videoID); err != nil {
				return fmt.Errorf("ingest %s: %w", videoID, err)
			}

			summary, err := app.Summary.Summarize(ctx, videoID)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}
}

// setup loads configuration, initializes telemetry, and wires the app.
func setup() (*App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	shutdown := func() {}
	if cfg.HasSentry() {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}
		shutdown, err = telemetry.Init(telemetry.Config{
			DSN:         cfg.SentryDSN,
			Environment: environment,
			Debug:       cfg.Debug,
		})
		if err != nil {
			shutdown = func() {}
		}
	}

	return buildApp(cfg), shutdown, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
