// Package transport defines the connection abstraction the rpc layer
// exchanges envelope messages over, together with the stream framing
// and the persistent-connection decorators.
package transport

import (
	"fmt"
	"net"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
)

// Connection sends and receives whole protobuf messages.
// Send and Receive may be called concurrently with each other,
// but not concurrently with themselves.
type Connection interface {
	Send(msg proto.Message) error
	// Receive resets msg and parses the next message into it.
	Receive(msg proto.Message) error
	// Close is idempotent.
	Close() error
	IsClosed() bool
}

// ConnectionFactory yields connections ready for one request/response exchange.
// On the client side, CreateConnection connects.
// On the server side, it blocks until the next inbound connection is accepted.
type ConnectionFactory interface {
	CreateConnection() (Connection, error)
}

// ServerConnectionFactory is a ConnectionFactory that holds a listening endpoint.
// Once Close has been called, CreateConnection returns ErrFactoryClosed.
type ServerConnectionFactory interface {
	ConnectionFactory
	Close() error
}

// Wire is the byte stream below a StreamConn.
// Both *net.TCPConn and *net.UnixConn qualify.
type Wire interface {
	net.Conn
	// CloseWrite shuts down the writing side of the connection.
	CloseWrite() error
}

var (
	ErrClosed          = errors.New("connection closed")
	ErrLeaseReleased   = errors.New("persistent connection lease already released")
	ErrFactoryClosed   = errors.New("connection factory closed")
	ErrMessageTooLarge = errors.New("message exceeds maximum message size")
)

// UnknownHostError is returned by client factories if the host name
// of the server cannot be resolved.
type UnknownHostError struct {
	Host string
	Err  error
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("unknown host %q: %s", e.Host, e.Err)
}

// CodecError is returned if a message cannot be encoded or decoded.
// Stream alignment is preserved, the connection remains usable.
type CodecError struct {
	Op  string // "marshal" or "unmarshal"
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("cannot %s message: %s", e.Op, e.Err)
}

// IsCodecError reports whether err, or any error it wraps, is a *CodecError.
func IsCodecError(err error) bool {
	_, ok := errors.Cause(err).(*CodecError)
	return ok
}

// IsUnknownHost reports whether err, or any error it wraps, is an *UnknownHostError.
func IsUnknownHost(err error) bool {
	_, ok := errors.Cause(err).(*UnknownHostError)
	return ok
}
