// Package cli implements the recurctl command set: operator tooling for
// planning, inspecting and exporting recurrence rules.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	cfg        Config
)

var rootCmd = &cobra.Command{
	Use:           "recurctl",
	Short:         "Inspect and expand task recurrence rules",
	Long:          `Recurctl runs the taskplan recurrence engine from the command line: expand a rule into concrete due dates, normalize legacy payloads, or export a schedule as an iCalendar file.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := slog.LevelInfo
		if verbose || cfg.Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return err
	}
	return nil
}
