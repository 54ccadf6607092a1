package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
)

func NewExecCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec REQUEST [REQUEST...]",
		Short: "Serve requests in-process without a server",
		Long: `Serve each argument as one request string, in order, against a registry
that lives only for this invocation. Rotators from the config file are
preloaded. Each reply is printed on its own line.

Rotation state is lost when the command exits; use 'serve' and 'query' for
widgets.`,
		Example: `  lcdrotator exec "Disks key a=1,b=2" "Disks value" "Disks key" "Disks value"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHandler(cfg, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, input := range args {
				reply, err := h.Handle(input)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, reply)
			}
			return nil
		},
	}

	return cmd
}
