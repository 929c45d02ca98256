// Package timeservice is an example blocking service returning the server's clock.
package timeservice

import (
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/rpc"
)

var (
	MethodGetTime = &rpc.MethodDescriptor{
		Name:        "getTime",
		NewRequest:  func() proto.Message { return &TimeRequest{} },
		NewResponse: func() proto.Message { return &TimeResponse{} },
	}
	Descriptor = rpc.NewServiceDescriptor("timeservice.TimeService", MethodGetTime)
)

// NewService uses time.Now if now is nil.
func NewService(now func() time.Time) rpc.BlockingService {
	if now == nil {
		now = time.Now
	}
	return rpc.NewBlockingService(Descriptor, map[string]rpc.BlockingMethodFunc{
		MethodGetTime.Name: func(c *rpc.Controller, request proto.Message) (proto.Message, error) {
			return &TimeResponse{StrTime: proto.String(now().Format(time.ANSIC))}, nil
		},
	})
}

type Client struct {
	ch *rpc.Channel
}

func NewClient(ch *rpc.Channel) *Client { return &Client{ch} }

// GetTime interprets the server's clock in the local time zone.
func (cl *Client) GetTime(c *rpc.Controller) (time.Time, error) {
	resp, err := cl.ch.CallBlocking(MethodGetTime, c, &TimeRequest{}, &TimeResponse{})
	if err != nil {
		return time.Time{}, err
	}
	if resp == nil {
		return time.Time{}, errors.New("server did not return the time")
	}
	t, err := time.ParseInLocation(time.ANSIC, resp.(*TimeResponse).GetStrTime(), time.Local)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "server returned malformed time")
	}
	return t, nil
}
