package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/cmd/lcdrotator/commands"
	"github.com/systmms/lcdrotator/internal/config"
	dserrors "github.com/systmms/lcdrotator/internal/errors"
	"github.com/systmms/lcdrotator/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "lcdrotator",
		Short: "Rotate key/value pairs for lcd4linux widgets",
		Long: `lcdrotator keeps rotation state for pairs of lcd4linux widgets.

A label widget asks for the next key and its bar widget asks for the value
paired with that key. Run 'lcdrotator serve' once and point the widgets at
'lcdrotator query' so the state survives between polls.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Add commands
	rootCmd.AddCommand(
		commands.NewInitCommand(cfg),
		commands.NewServeCommand(cfg),
		commands.NewQueryCommand(cfg),
		commands.NewExecCommand(cfg),
		commands.NewDemoCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewStatusCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
