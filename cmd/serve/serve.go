// Package serve handles the serve command
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/internal/parser"

	"github.com/spf13/cobra"
)

// Addr overrides the configured listen address when set.
var Addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser and validator over HTTP",
	Long: `Start an HTTP server exposing the parser, the validator and the converters.

Endpoints:
  GET  /health     liveness probe
  GET  /types      supported message types
  POST /parse      MT messages to JSON documents
  POST /validate   validation reports of MT messages
  POST /convert    ?format=csv|xlsx|json|mt
  POST /summary    account summary of statement messages, ?format=json|yaml

The server stops gracefully on SIGINT or SIGTERM.

Example:
  swift-mt serve --addr :9090`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&Addr, "addr", "", "Listen address (default from server.address)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	if Addr != "" {
		c.GetConfig().Server.Address = Addr
	}

	p, err := c.GetParser(parser.Auto)
	if err != nil {
		return err
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.NewAPIServer(p).Run(ctx)
}
