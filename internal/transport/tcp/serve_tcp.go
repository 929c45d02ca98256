package tcp

import (
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/transport"
	"github.com/socketrpc/socketrpc/internal/util/tcpsock"
)

// Listener is the server factory: every CreateConnection accepts the next inbound TCP connection.
type Listener struct {
	l         *net.TCPListener
	delimited bool

	mtx    sync.Mutex
	closed bool
}

var _ transport.ServerConnectionFactory = (*Listener)(nil)

type ListenOptions struct {
	// empty binds all interfaces
	BindAddress string
	Port        uint16
	// <= 0 keeps the OS default
	Backlog  int
	FreeBind bool
}

func Listen(opts ListenOptions, delimited bool) (*Listener, error) {
	address := net.JoinHostPort(opts.BindAddress, config.PortString(opts.Port))
	l, err := tcpsock.Listen(address, opts.Backlog, opts.FreeBind)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot listen on %s", address)
	}
	return &Listener{l: l, delimited: delimited}, nil
}

func ListenerFromConfig(in *config.TCPServe, delimited bool) (*Listener, error) {
	return Listen(ListenOptions{
		BindAddress: in.BindAddress,
		Port:        in.Port,
		Backlog:     in.Backlog,
		FreeBind:    in.FreeBind,
	}, delimited)
}

func (l *Listener) Addr() *net.TCPAddr { return l.l.Addr().(*net.TCPAddr) }

func (l *Listener) Address() string { return l.Addr().String() }

func (l *Listener) CreateConnection() (transport.Connection, error) {
	nc, err := l.l.AcceptTCP()
	if err != nil {
		if l.IsClosed() {
			return nil, transport.ErrFactoryClosed
		}
		return nil, errors.Wrap(err, "cannot accept connection")
	}
	return transport.NewStreamConn(nc, l.delimited), nil
}

// Close stops accepting. Connections already handed out are not affected.
func (l *Listener) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.l.Close()
}

func (l *Listener) IsClosed() bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.closed
}
