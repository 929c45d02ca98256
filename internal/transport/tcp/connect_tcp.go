package tcp

import (
	"net"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/transport"
)

// Connecter is the one-shot client factory: every CreateConnection dials a new TCP connection.
type Connecter struct {
	host, port string
	delimited  bool
	dialer     net.Dialer
}

var _ transport.ConnectionFactory = (*Connecter)(nil)

func NewConnecter(host string, port uint16, delimited bool) *Connecter {
	return &Connecter{
		host:      host,
		port:      config.PortString(port),
		delimited: delimited,
	}
}

func ConnecterFromConfig(in *config.TCPConnect, delimited bool) *Connecter {
	return NewConnecter(in.Host, in.Port, delimited)
}

func (c *Connecter) Address() string { return net.JoinHostPort(c.host, c.port) }

func (c *Connecter) CreateConnection() (transport.Connection, error) {
	nc, err := c.dialer.Dial("tcp", c.Address())
	if err != nil {
		if dnsErr, ok := errors.Cause(unwrapOpError(err)).(*net.DNSError); ok {
			return nil, &transport.UnknownHostError{Host: c.host, Err: dnsErr}
		}
		return nil, errors.Wrapf(err, "cannot connect to %s", c.Address())
	}
	return transport.NewStreamConn(nc.(*net.TCPConn), c.delimited), nil
}

func unwrapOpError(err error) error {
	if opErr, ok := err.(*net.OpError); ok {
		return opErr.Err
	}
	return err
}
