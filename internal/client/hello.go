package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/socketrpc/socketrpc/internal/cli"
	"github.com/socketrpc/socketrpc/internal/examples/helloworld"
)

var helloArgs struct {
	name    string
	async   bool
	timeout time.Duration
}

var HelloCmd = &cli.Subcommand{
	Use:   "hello",
	Short: "call the HelloWorld example service",
	SetupFlags: func(f *pflag.FlagSet) {
		f.StringVar(&helloArgs.name, "name", "Eric", "name to be greeted")
		f.BoolVar(&helloArgs.async, "async", false, "use the asynchronous call form")
		f.DurationVar(&helloArgs.timeout, "timeout", 10*time.Second, "how long to wait for an asynchronous completion")
	},
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

		greeting, err := hello(ch, helloArgs.name, helloArgs.async, helloArgs.timeout)
		if err != nil {
			return err
		}
		fmt.Println(color.GreenString("%s", greeting))
		return nil
	},
}

func hello(ch *clientChannel, name string, async bool, timeout time.Duration) (string, error) {
	cl := helloworld.NewClient(ch.Channel)
	c := ch.NewController()
	req := &helloworld.HelloRequest{MyName: proto.String(name)}
	if !async {
		resp, err := cl.HelloWorldBlocking(c, req)
		if err != nil {
			return "", failure(c)
		}
		return resp.GetHelloWorld(), nil
	}

	responses := make(chan *helloworld.HelloResponse, 1)
	cl.HelloWorld(c, req, func(resp *helloworld.HelloResponse) {
		responses <- resp
	})
	select {
	case resp := <-responses:
		if c.Failed() {
			return "", failure(c)
		}
		return resp.GetHelloWorld(), nil
	case <-time.After(timeout):
		return "", errors.Errorf("server did not complete the call within %s", timeout)
	}
}
