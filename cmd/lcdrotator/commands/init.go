package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
)

const exampleConfig = `version: 0

# Where 'lcdrotator serve' listens and 'lcdrotator query' connects.
server:
  listen: "127.0.0.1:7468"
  read_timeout_ms: 5000

# Prometheus metrics on the server address.
metrics:
  enabled: false
  path: /metrics

# Rotators created at startup. Entries rotate in the order listed.
# Requests for these names may omit the KEY=VALUE pairs.
rotators:
  AllDisks:
    - { key: root, value: / }
    - { key: md0, value: /data }
    - { key: home, value: /home }

  # Sensors:
  #   - { key: cpu, value: /sys/class/hwmon/hwmon0/temp1_input }
  #   - { key: gpu, value: /sys/class/hwmon/hwmon1/temp1_input }
  #   # redact hides a value in --debug output
  #   - { key: vpn, value: /run/vpn/status, redact: true }
`

func NewInitCommand(cfg *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new lcdrotator configuration",
		Long:  "Create an lcdrotator.yaml file with example configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfg.Path); err == nil && !force {
				return fmt.Errorf("%s already exists. Remove it or pass --force to reinitialize", cfg.Path)
			}

			if err := os.WriteFile(cfg.Path, []byte(exampleConfig), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", cfg.Path, err)
			}

			logger(cfg).Info("Created %s", cfg.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}
