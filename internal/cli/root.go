package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Illyk/perfgun/internal/output"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "perfgun",
	Short:   "Live console statistics for load-test runs",
	Version: version,
	Long: `Perfgun aggregates the lifecycle and outcome events of a load-test run
and periodically renders a point-in-time summary to the console: per-scenario
user progress, global and per-request outcome counters, and error breakdowns.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(replayCmd)
	RootCmd.AddCommand(demoCmd)
}

// colorScheme picks the summary colors: disabled when requested or when
// stdout is not a terminal.
func colorScheme(noColor bool) *output.ColorScheme {
	if noColor || !stdoutIsTerminal() {
		return output.NoColorScheme()
	}
	return output.DefaultColorScheme()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newLogger builds the CLI logger: human-readable output on stderr, debug
// level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
