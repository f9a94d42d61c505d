package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	bedrockimage "github.com/Yaksh36/mcp-server-bedrock-image"
	"github.com/Yaksh36/mcp-server-bedrock-image/internal/transport"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve operations over HTTP",
		Long: `Start an HTTP server exposing every operation:

  GET  /health         liveness and version
  GET  /tools          operation list
  POST /tools/:name    run an operation with a JSON body

If the backend client cannot be created the server still starts; backend
operations then fail with 502 while compose_branded keeps working.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return runServe(cmd.Context(), a, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func runServe(ctx context.Context, a *app, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := a.service(ctx, true)
	if err != nil {
		a.logger.Warn("backend unavailable, serving local operations only", "error", err)
		if svc, err = a.service(ctx, false); err != nil {
			return err
		}
	}

	server := transport.NewServer(addr, svc, transport.HandlerOptions{
		Logger:  a.logger.Named("http"),
		Version: bedrockimage.GetVersion(),
	})
	return server.Run(ctx)
}
