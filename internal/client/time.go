package client

import (
	"context"
	"fmt"
	"time"

	"github.com/socketrpc/socketrpc/internal/cli"
	"github.com/socketrpc/socketrpc/internal/examples/timeservice"
)

var TimeCmd = &cli.Subcommand{
	Use:   "time",
	Short: "ask the TimeService example service for the server's time",
	Run: func(ctx context.Context, subcommand *cli.Subcommand, args []string) error {
		log, err := loggerFromConfig(subcommand.Config())
		if err != nil {
			return err
		}
		ch, err := channelFromConfig(subcommand.Config().Client, log)
		if err != nil {
			return err
		}
		defer ch.close()

		c := ch.NewController()
		t, err := timeservice.NewClient(ch.Channel).GetTime(c)
		if err != nil {
			if c.Failed() {
				return failure(c)
			}
			return err
		}
		fmt.Println(t.Format(time.RFC3339))
		return nil
	},
}
