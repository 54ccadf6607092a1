package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
	"github.com/systmms/lcdrotator/internal/request"
)

func NewDemoCommand(cfg *config.Config) *cobra.Command {
	var (
		iterations int
		extraEvery int
		initial    string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Simulate a label and bar widget pair",
		Long: `Simulate two widgets polling the same rotator: a label asking for keys
and a bar asking for values. Every --extra-every iterations the label is
refreshed twice before the bar runs, which shows that a pending key is
returned again rather than skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.Parse(initial)
			if err != nil {
				return err
			}

			h, err := newHandler(cfg, nil)
			if err != nil {
				return err
			}

			labelAgain := req.Name + " key"
			bar := req.Name + " value"
			out := cmd.OutOrStdout()

			for i := 0; i < iterations; i++ {
				label, err := h.Handle(initial)
				if err != nil {
					return err
				}
				if extraEvery > 0 && i%extraEvery == 0 {
					extra, err := h.Handle(labelAgain)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Getting extra label: %s\n", extra)
				}
				value, err := h.Handle(bar)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s=%s\n", label, value)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 20, "Number of label/bar refreshes")
	cmd.Flags().IntVar(&extraEvery, "extra-every", 5, "Refresh the label twice every N iterations (0 disables)")
	cmd.Flags().StringVar(&initial, "request", "Test key foo=bar,baz=bong,lol=omg", "Label request, including the KEY=VALUE pairs")

	return cmd
}
