// Package local connects clients and servers within one process.
// Each connection is a socketpair, so both framings work as they do over TCP.
package local

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/transport"
	"github.com/socketrpc/socketrpc/internal/util/socketpair"
)

var listeners struct {
	mtx sync.Mutex
	m   map[string]*Listener // name -> listener
}

func lookupListener(name string) *Listener {
	listeners.mtx.Lock()
	defer listeners.mtx.Unlock()
	return listeners.m[name]
}

type connectResult struct {
	wire transport.Wire
	err  error
}

type connectRequest struct {
	// buffered, the listener never blocks on responding
	callback chan connectResult
}

// Listener is a ServerConnectionFactory for Connecters with the same name.
type Listener struct {
	name      string
	delimited bool
	connects  chan connectRequest
	done      chan struct{}
	closeOnce sync.Once
}

// Listen registers a listener under name. Names are unique per process
// until the listener is closed.
func Listen(name string, delimited bool) (*Listener, error) {
	if name == "" {
		return nil, errors.New("listener name must not be empty")
	}
	listeners.mtx.Lock()
	defer listeners.mtx.Unlock()
	if listeners.m == nil {
		listeners.m = make(map[string]*Listener)
	}
	if _, ok := listeners.m[name]; ok {
		return nil, errors.Errorf("local listener %q already exists", name)
	}
	l := &Listener{
		name:      name,
		delimited: delimited,
		connects:  make(chan connectRequest),
		done:      make(chan struct{}),
	}
	listeners.m[name] = l
	return l, nil
}

func ListenerFromConfig(in *config.LocalServe, delimited bool) (*Listener, error) {
	return Listen(in.ListenerName, delimited)
}

func (l *Listener) Name() string { return l.name }

func (l *Listener) Address() string { return "local:" + l.name }

func (l *Listener) connect() (transport.Wire, error) {
	req := connectRequest{callback: make(chan connectResult, 1)}
	select {
	case l.connects <- req:
	case <-l.done:
		return nil, errors.Errorf("local listener %q closed", l.name)
	}
	res := <-req.callback
	return res.wire, res.err
}

// CreateConnection blocks until a Connecter connects or the listener is closed.
func (l *Listener) CreateConnection() (transport.Connection, error) {
	var req connectRequest
	select {
	case req = <-l.connects:
	case <-l.done:
		return nil, transport.ErrFactoryClosed
	}
	left, right, err := socketpair.SocketPair()
	if err != nil {
		req.callback <- connectResult{nil, errors.Wrap(err, "server error")}
		return nil, errors.Wrap(err, "cannot create socketpair")
	}
	req.callback <- connectResult{left, nil}
	return transport.NewStreamConn(right, l.delimited), nil
}

func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		listeners.mtx.Lock()
		defer listeners.mtx.Unlock()
		if listeners.m[l.name] == l {
			delete(listeners.m, l.name)
		}
	})
	return nil
}

type Connecter struct {
	name      string
	delimited bool
}

func NewConnecter(name string, delimited bool) *Connecter {
	return &Connecter{name, delimited}
}

func ConnecterFromConfig(in *config.LocalConnect, delimited bool) *Connecter {
	return NewConnecter(in.ListenerName, delimited)
}

func (c *Connecter) Address() string { return "local:" + c.name }

// CreateConnection reports an unknown listener name as *transport.UnknownHostError.
// It blocks until the listener accepts.
func (c *Connecter) CreateConnection() (transport.Connection, error) {
	l := lookupListener(c.name)
	if l == nil {
		return nil, &transport.UnknownHostError{Host: c.Address(), Err: errors.New("no such local listener")}
	}
	wire, err := l.connect()
	if err != nil {
		return nil, err
	}
	return transport.NewStreamConn(wire, c.delimited), nil
}
