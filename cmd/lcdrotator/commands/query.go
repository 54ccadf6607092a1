package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/lcdrotator/internal/config"
	"github.com/systmms/lcdrotator/internal/server"
)

func NewQueryCommand(cfg *config.Config) *cobra.Command {
	var (
		serverAddr string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query NAME TYPE [KEY=VALUE,...]",
		Short: "Send one request to a running server",
		Long: `Send one request string to 'lcdrotator serve' and print the reply.

The arguments are joined with single spaces into the request string, so the
request may be passed quoted or unquoted. The reply is printed without a
trailing newline so widgets can use it directly.`,
		Example: `  # lcd4linux.conf
  Widget LabelAllDisks {
      class 'Text'
      update 1000
      expression exec('lcdrotator query AllDisks key root=/,md0=/data,home=/home', 1000)
  }
  Widget BarAllDisks {
      class 'Bar'
      update 1000
      expression path=exec('lcdrotator query AllDisks value', 1000) ; ((statfs(path, 'blocks') - statfs(path, 'bavail')) / statfs(path, 'blocks'))*100
  }`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := serverAddr
			if !cmd.Flags().Changed("server") {
				if err := cfg.LoadOptional(); err != nil {
					return err
				}
				addr = cfg.ListenAddr()
			}

			client := server.NewClient(addr, timeout)
			out, err := client.Query(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAddr, "server", config.DefaultListen, "Server address (defaults to server.listen from the config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Request timeout")

	return cmd
}
