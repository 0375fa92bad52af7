package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Illyk/perfgun/internal/config"
	"github.com/Illyk/perfgun/internal/output"
	"github.com/Illyk/perfgun/internal/replay"
	"github.com/Illyk/perfgun/internal/writer"
)

const shutdownTimeout = 30 * time.Second

var replayCmd = &cobra.Command{
	Use:   "replay [events-file]",
	Short: "Replay a recorded event stream into the live console writer",
	Long: `Replay reads a JSON-lines event stream (from a file, or stdin when no
file is given), feeds it through the live stats writer and renders periodic
console summaries. Lines that are not valid events are skipped.

Example:
  perfgun replay --config run.yaml events.jsonl
  my-engine | perfgun replay --config run.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringP("config", "c", "", "run configuration file (required)")
	replayCmd.Flags().String("flush-period", "", "override the configured flush period")
	replayCmd.Flags().Bool("no-color", false, "disable colored output")
	replayCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	replayCmd.MarkFlagRequired("config")
}

func runReplay(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	periodFlag, _ := cmd.Flags().GetString("flush-period")
	noColor, _ := cmd.Flags().GetBool("no-color")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	period, err := cfg.ParseFlushPeriod()
	if err != nil {
		return err
	}
	if periodFlag != "" {
		if period, err = config.ParseDurationString(periodFlag); err != nil {
			return err
		}
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	w, err := writer.Start(writer.Config{
		Catalog:     cfg.Catalog(),
		FlushPeriod: period,
		Summary:     output.NewConsoleSummary(output.ConsoleSummaryConfig{Scheme: colorScheme(noColor)}),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open event stream: %w", err)
		}
		defer f.Close()
		in = f
	}

	n, readErr := replay.NewDecoder().DecodeStream(in, w.Dispatch)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "replayed %d events\n", n)
	}
	return readErr
}
