package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/logging"
	"github.com/socketrpc/socketrpc/internal/rpcpb"
	"github.com/socketrpc/socketrpc/internal/transport"
)

type DispatchMode int

const (
	// DispatchBlocking sends the response when the service method returns.
	DispatchBlocking DispatchMode = iota
	// DispatchAsync sends the response when the service method invokes its completion.
	DispatchAsync
)

type ServerConfig struct {
	Dispatch DispatchMode
	// Close the connection right after dispatching instead of after sending the response.
	// Only affects DispatchAsync.
	CloseConnectionAfterInvokingService bool
	// Optional, limits the rate at which connections are accepted.
	AcceptLimiter *rate.Limiter
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Dispatch:                            DispatchBlocking,
		CloseConnectionAfterInvokingService: true,
	}
}

// Server accepts connections from a ServerConnectionFactory and
// handles one exchange per connection on its Executor.
type Server struct {
	factory   transport.ServerConnectionFactory
	executor  Executor
	config    ServerConfig
	forwarder *Forwarder
	log       logger.Logger
}

// NewServer uses a GoExecutor if executor is nil.
func NewServer(factory transport.ServerConnectionFactory, executor Executor, config ServerConfig, log logger.Logger) *Server {
	if executor == nil {
		executor = NewGoExecutor()
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Server{
		factory:   factory,
		executor:  executor,
		config:    config,
		forwarder: NewForwarder(logging.LogSubsystem(log, logging.SubsysForwarder)),
		log:       logging.LogSubsystem(log, logging.SubsysServer),
	}
}

func (s *Server) RegisterService(svc Service) { s.forwarder.RegisterService(svc) }

func (s *Server) RegisterBlockingService(svc BlockingService) {
	s.forwarder.RegisterBlockingService(svc)
}

func (s *Server) Forwarder() *Forwarder { return s.forwarder }

// Serve runs the accept loop until the factory is closed or ctx is done.
// In both cases it returns nil. Any other accept error is returned.
// Before returning, Serve closes the factory and shuts down the executor.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.executor.Shutdown()
	defer func() {
		if err := s.factory.Close(); err != nil {
			s.log.WithError(err).Warn("cannot close connection factory")
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.factory.Close(); err != nil {
			s.log.WithError(err).Warn("cannot close connection factory")
		}
	}()

	s.log.Info("serving")
	for {
		if s.config.AcceptLimiter != nil {
			if err := s.config.AcceptLimiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					s.log.Info("context done, shutting down")
					return nil
				}
				return errors.Wrap(err, "accept rate limiter")
			}
		}
		conn, err := s.factory.CreateConnection()
		if err != nil {
			if errors.Cause(err) == transport.ErrFactoryClosed || ctx.Err() != nil {
				s.log.Info("connection factory closed, shutting down")
				return nil
			}
			s.log.WithError(err).Error("cannot accept connection, shutting down")
			return err
		}
		if err := s.executor.Execute(func() { s.handle(conn) }); err != nil {
			s.log.WithError(err).Error("cannot execute connection handler, shutting down")
			if err := conn.Close(); err != nil {
				s.log.WithError(err).Warn("cannot close connection")
			}
			return err
		}
	}
}

// exchange is the state of one request/response on a connection.
// send and close take effect at most once.
type exchange struct {
	conn      transport.Connection
	log       logger.Logger
	start     time.Time
	sendOnce  sync.Once
	closeOnce sync.Once
}

func (x *exchange) send(resp *rpcpb.Response) {
	x.sendOnce.Do(func() {
		prom.serverRequests.WithLabelValues(responseReasonLabel(resp)).Inc()
		if err := x.conn.Send(resp); err != nil {
			x.log.WithError(err).Warn("cannot send response")
			x.close()
			return
		}
		prom.serverHandling.Observe(time.Since(x.start).Seconds())
		x.log.Debug("sent response")
	})
}

func (x *exchange) close() {
	x.closeOnce.Do(func() {
		if err := x.conn.Close(); err != nil {
			x.log.WithError(err).Warn("cannot close connection")
		}
	})
}

func (s *Server) handle(conn transport.Connection) {
	x := &exchange{
		conn:  conn,
		log:   s.log.WithField(logging.RequestIDField, newRequestID().String()),
		start: time.Now(),
	}
	defer func() {
		if p := recover(); p != nil {
			x.log.WithField("panic", p).Error("connection handler panicked")
			x.send(errorResponse(newError(rpcpb.ErrorReason_RPC_ERROR, panicCause(p), "error handling request")))
			x.close()
		}
	}()

	var req rpcpb.Request
	if err := conn.Receive(&req); err != nil {
		x.log.WithError(err).Warn("cannot receive request")
		x.send(rpcpb.NewErrorResponse(rpcpb.ErrorReason_BAD_REQUEST_DATA, "Bad request data from client"))
		x.close()
		return
	}
	x.log = x.log.WithField("method", req.GetServiceName()+"."+req.GetMethodName())
	x.log.Debug("received request")

	if s.config.Dispatch == DispatchAsync {
		err := s.forwarder.DoRpc(&req, func(resp *rpcpb.Response) {
			x.send(resp)
			if !s.config.CloseConnectionAfterInvokingService {
				x.close()
			}
		})
		if err != nil {
			x.log.WithError(err).Info("dispatch failed")
			x.send(errorResponse(err))
			x.close()
			return
		}
		if s.config.CloseConnectionAfterInvokingService {
			x.close()
		}
		return
	}

	resp, err := s.forwarder.DoBlockingRpc(&req)
	if err != nil {
		x.log.WithError(err).Info("dispatch failed")
		resp = errorResponse(err)
	}
	x.send(resp)
	x.close()
}
