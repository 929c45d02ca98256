// Package fromconfig instantiates transports based on config structures
// (see package config).
package fromconfig

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/transport"
	"github.com/socketrpc/socketrpc/internal/transport/local"
	"github.com/socketrpc/socketrpc/internal/transport/tcp"
)

// Listener is a ServerConnectionFactory that knows where it listens.
type Listener interface {
	transport.ServerConnectionFactory
	Address() string
}

// ServerFactoryFromConfig starts listening as configured in in.Serve.
// If in.Persistent is set, the returned factory hands out one shared connection.
// The returned address is that of the underlying listener.
func ServerFactoryFromConfig(in *config.Server) (transport.ServerConnectionFactory, string, error) {
	var (
		l   Listener
		err error
	)
	switch v := in.Serve.Ret.(type) {
	case *config.TCPServe:
		l, err = tcp.ListenerFromConfig(v, in.Delimited)
	case *config.LocalServe:
		l, err = local.ListenerFromConfig(v, in.Delimited)
	default:
		return nil, "", errors.Errorf("internal error: unknown serve type %T", v)
	}
	if err != nil {
		return nil, "", err
	}
	if in.Persistent {
		return transport.NewPersistentServerFactory(l), l.Address(), nil
	}
	return l, l.Address(), nil
}

// ConnecterFromConfig builds the client side of in.Connect.
// If in.Persistent is set, the result is a *transport.PersistentFactory
// which the caller must close.
func ConnecterFromConfig(in *config.Client) transport.ConnectionFactory {
	var connecter transport.ConnectionFactory
	switch v := in.Connect.Ret.(type) {
	case *config.TCPConnect:
		connecter = tcp.ConnecterFromConfig(v, in.Delimited)
	case *config.LocalConnect:
		connecter = local.ConnecterFromConfig(v, in.Delimited)
	default:
		panic(fmt.Sprintf("implementation error: unknown connecter type %T", v))
	}
	if in.Persistent {
		return transport.NewPersistentFactory(connecter)
	}
	return connecter
}
