package daemon

import (
	"context"

	"github.com/socketrpc/socketrpc/internal/cli"
	"github.com/socketrpc/socketrpc/internal/logger"
)

type Logger = logger.Logger

var ServeCmd = &cli.Subcommand{
	Use:   "serve",
	Short: "run the rpc server with the example services",
	Run: func(ctx context.Context, subcommand *cli.Subcommand, args []string) error {
		return Run(ctx, subcommand.Config())
	},
}
