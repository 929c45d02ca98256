// Command socketrpc serves and calls protocol buffer services over plain sockets.
package main

import (
	"github.com/socketrpc/socketrpc/internal/cli"
	"github.com/socketrpc/socketrpc/internal/client"
	"github.com/socketrpc/socketrpc/internal/daemon"
)

func init() {
	cli.AddSubcommand(daemon.ServeCmd)
	cli.AddSubcommand(client.HelloCmd)
	cli.AddSubcommand(client.TimeCmd)
	cli.AddSubcommand(client.ConfigcheckCmd)
}

func main() {
	cli.Run()
}
