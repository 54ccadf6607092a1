package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
	"github.com/systmms/lcdrotator/internal/server"
)

func NewStatusCommand(cfg *config.Config) *cobra.Command {
	var (
		serverAddr string
		timeout    time.Duration
		format     string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the live state of a running server's rotators",
		Long: `Show every rotator held by 'lcdrotator serve': the keys in the order they
will be issued, the key waiting for its value request, and how many keys
have been rotated so far.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := serverAddr
			if !cmd.Flags().Changed("server") {
				if err := cfg.LoadOptional(); err != nil {
					return err
				}
				addr = cfg.ListenAddr()
			}

			states, err := server.NewClient(addr, timeout).Rotators(cmd.Context())
			if err != nil {
				return err
			}
			return printStates(cmd.OutOrStdout(), states, format, true)
		},
	}

	cmd.Flags().StringVar(&serverAddr, "server", config.DefaultListen, "Server address (defaults to server.listen from the config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Request timeout")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")

	return cmd
}
