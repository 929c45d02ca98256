// Package helloworld is an example service that greets its caller.
package helloworld

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/rpc"
)

var (
	MethodHelloWorld = &rpc.MethodDescriptor{
		Name:        "HelloWorld",
		NewRequest:  func() proto.Message { return &HelloRequest{} },
		NewResponse: func() proto.Message { return &HelloResponse{} },
	}
	Descriptor = rpc.NewServiceDescriptor("helloworld.HelloWorldService", MethodHelloWorld)
)

// NewService returns the HelloWorldService. Each greeting is completed after delay.
func NewService(delay time.Duration, log logger.Logger) rpc.Service {
	return rpc.NewService(Descriptor, map[string]rpc.MethodFunc{
		MethodHelloWorld.Name: func(c *rpc.Controller, request proto.Message, done rpc.Done) {
			req := request.(*HelloRequest)
			log.WithField("name", req.GetMyName()).Info("greeting")
			time.Sleep(delay)
			done(&HelloResponse{HelloWorld: proto.String(fmt.Sprintf("Hello %s", req.GetMyName()))})
		},
	})
}

// Client calls the HelloWorldService through a channel.
type Client struct {
	ch *rpc.Channel
}

func NewClient(ch *rpc.Channel) *Client { return &Client{ch} }

func (cl *Client) HelloWorld(c *rpc.Controller, req *HelloRequest, done func(*HelloResponse)) {
	cl.ch.Call(MethodHelloWorld, c, req, &HelloResponse{}, func(resp proto.Message) {
		r, _ := resp.(*HelloResponse)
		done(r)
	})
}

func (cl *Client) HelloWorldBlocking(c *rpc.Controller, req *HelloRequest) (*HelloResponse, error) {
	resp, err := cl.ch.CallBlocking(MethodHelloWorld, c, req, &HelloResponse{})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("server did not return a greeting")
	}
	return resp.(*HelloResponse), nil
}
