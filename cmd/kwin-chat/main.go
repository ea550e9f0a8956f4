package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	app "github.com/0STG0T/t1-solution-2"
	"github.com/0STG0T/t1-solution-2/internal/chat"
)

type options struct {
	Endpoint string
	Quiet    bool
	NoColor  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "kwin-chat",
		Short:   "Chat with the flow assistant from a terminal",
		Version: app.Version,
		Example: `
kwin-chat --endpoint ws://localhost:8000/ws
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.NoColor {
				color.NoColor = true
			}
			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			c := &console{
				in:    cmd.InOrStdin(),
				out:   cmd.OutOrStdout(),
				quiet: opts.Quiet,
			}
			return c.run(ctx, opts.Endpoint)
		},
	}

	cmd.Flags().StringVarP(&opts.Endpoint, "endpoint", "e",
		chat.DefaultEndpoint, "chat websocket endpoint")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"suppress connection notifications")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")
	return cmd
}
