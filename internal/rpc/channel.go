package rpc

import (
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/logging"
	"github.com/socketrpc/socketrpc/internal/rpcpb"
	"github.com/socketrpc/socketrpc/internal/transport"
)

// Channel makes calls over connections from a ConnectionFactory,
// one connection per call.
type Channel struct {
	factory  transport.ConnectionFactory
	executor Executor
	log      logger.Logger
}

// NewChannel returns a Channel whose asynchronous calls complete
// on the calling goroutine.
func NewChannel(factory transport.ConnectionFactory, log logger.Logger) *Channel {
	return NewChannelWithExecutor(factory, nil, log)
}

// NewChannelWithExecutor returns a Channel that runs asynchronous calls,
// including their completion, on executor. A nil executor runs them inline.
func NewChannelWithExecutor(factory transport.ConnectionFactory, executor Executor, log logger.Logger) *Channel {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Channel{
		factory:  factory,
		executor: executor,
		log:      logging.LogSubsystem(log, logging.SubsysChannel),
	}
}

func (ch *Channel) NewController() *Controller { return &Controller{} }

// CallBlocking returns (nil, nil) if the server sent no response message.
// On failure, the returned error is an *Error and c reflects it.
//
// A nil responsePrototype selects method.NewResponse.
func (ch *Channel) CallBlocking(method *MethodDescriptor, c *Controller, request, responsePrototype proto.Message) (proto.Message, error) {
	resp, _, err := ch.call(method, c, request, responsePrototype)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Call invokes done with the response once the call completes.
// If the server signalled that it did not complete the call, done is not invoked.
// On failure, c reflects the failure and done is invoked with nil.
func (ch *Channel) Call(method *MethodDescriptor, c *Controller, request, responsePrototype proto.Message, done Done) {
	if done == nil {
		done = func(proto.Message) {}
	}
	run := func() {
		resp, invoked, err := ch.call(method, c, request, responsePrototype)
		if err != nil {
			done(nil)
			return
		}
		if invoked {
			done(resp)
		}
	}
	if ch.executor == nil {
		run()
		return
	}
	if err := ch.executor.Execute(run); err != nil {
		c.begin()
		c.fail(newError(rpcpb.ErrorReason_IO_ERROR, err, "cannot execute call"))
		done(nil)
	}
}

func (ch *Channel) address() string {
	if a, ok := ch.factory.(interface{ Address() string }); ok {
		return a.Address()
	}
	return "server"
}

func newResponseMessage(method *MethodDescriptor, prototype proto.Message) proto.Message {
	if isNilMessage(prototype) {
		return method.NewResponse()
	}
	m := proto.Clone(prototype)
	m.Reset()
	return m
}

// call returns invoked=false if the server did not complete the call.
func (ch *Channel) call(method *MethodDescriptor, c *Controller, request, responsePrototype proto.Message) (resp proto.Message, invoked bool, err error) {
	start := time.Now()
	c.begin()
	log := ch.log.WithField("method", method.FullName())
	defer func() {
		label := reasonOK
		if err != nil {
			e, ok := AsError(err)
			if !ok {
				e = newError(rpcpb.ErrorReason_IO_ERROR, err, "%s", err.Error())
				err = e
			}
			c.fail(e)
			label = e.Reason.String()
			log.WithError(err).Debug("call failed")
		}
		prom.channelCalls.WithLabelValues(label).Inc()
		prom.channelDuration.Observe(time.Since(start).Seconds())
	}()

	if isNilMessage(request) {
		return nil, false, newError(rpcpb.ErrorReason_INVALID_REQUEST_PROTO, nil, "Request is uninitialized")
	}
	payload, err := proto.Marshal(request)
	if err != nil {
		return nil, false, newError(rpcpb.ErrorReason_INVALID_REQUEST_PROTO, err, "Request is uninitialized")
	}

	conn, err := ch.factory.CreateConnection()
	if err != nil {
		if uh, ok := errors.Cause(err).(*transport.UnknownHostError); ok {
			return nil, false, newError(rpcpb.ErrorReason_UNKNOWN_HOST, err, "Could not find host: %s", uh.Host)
		}
		return nil, false, newError(rpcpb.ErrorReason_IO_ERROR, err, "Could not open I/O for %s", ch.address())
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Warn("cannot close connection")
		}
	}()

	var serviceName string
	if method.Service() != nil {
		serviceName = method.Service().FullName()
	}
	if err := conn.Send(rpcpb.NewRequest(serviceName, method.Name, payload)); err != nil {
		return nil, false, newError(rpcpb.ErrorReason_IO_ERROR, err, "Error writing over connection to %s", ch.address())
	}

	var rpcResp rpcpb.Response
	if err := conn.Receive(&rpcResp); err != nil {
		return nil, false, newError(rpcpb.ErrorReason_IO_ERROR, err, "Error reading over connection from %s", ch.address())
	}

	if rpcResp.HasError() {
		if rpcResp.ErrorReason == nil || !rpcResp.GetErrorReason().ServerOriginated() {
			return nil, false, newError(rpcpb.ErrorReason_BAD_RESPONSE_PROTO, nil,
				"Bad response from server: invalid error reason for error %q", rpcResp.GetError())
		}
		return nil, false, newError(rpcResp.GetErrorReason(), nil, "%s", rpcResp.GetError())
	}

	if !rpcResp.GetCallback() {
		if rpcResp.HasResponseProto() {
			return nil, false, newError(rpcpb.ErrorReason_BAD_RESPONSE_PROTO, nil,
				"Bad response from server: response message without callback")
		}
		return nil, false, nil
	}
	if !rpcResp.HasResponseProto() {
		return nil, true, nil
	}

	msg := newResponseMessage(method, responsePrototype)
	if err := proto.Unmarshal(rpcResp.GetResponseProto(), msg); err != nil {
		return nil, false, newError(rpcpb.ErrorReason_BAD_RESPONSE_PROTO, err, "Bad response from server")
	}
	return msg, true, nil
}
