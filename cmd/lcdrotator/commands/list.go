package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
	"github.com/systmms/lcdrotator/pkg/rotator"
	"gopkg.in/yaml.v3"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rotators defined in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			secrets := cfg.Secrets()
			states := make([]rotator.State, 0, len(cfg.Definition.Rotators))
			for _, name := range cfg.Definition.RotatorNames() {
				keys, values, err := cfg.Rotator(name)
				if err != nil {
					return err
				}
				state := rotator.State{Name: name, Keys: keys, Values: values}
				states = append(states, state.Redacted(secrets))
			}

			return printStates(cmd.OutOrStdout(), states, format, false)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")

	return cmd
}

// printStates renders rotator states in the requested format
func printStates(w io.Writer, states []rotator.State, format string, live bool) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(states); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil

	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		if err := encoder.Encode(states); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return nil

	case "table":
		if len(states) == 0 {
			fmt.Fprintln(w, "No rotators")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if live {
			fmt.Fprintln(tw, "NAME\tNEXT KEYS\tPENDING\tROTATIONS")
			for _, s := range states {
				pending := "-"
				if s.HasPending {
					pending = fmt.Sprintf("%q", s.Pending)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Name, strings.Join(s.Keys, ","), pending, s.Rotations)
			}
		} else {
			fmt.Fprintln(tw, "NAME\tKEYS")
			for _, s := range states {
				fmt.Fprintf(tw, "%s\t%s\n", s.Name, strings.Join(s.Keys, ","))
			}
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown format %q (use table, json or yaml)", format)
	}
}
