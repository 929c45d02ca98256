package transport_test

import (
	"sync"

	"github.com/golang/protobuf/proto"

	"github.com/socketrpc/socketrpc/internal/transport"
)

// fakeConn replays scripted inbound messages and records outbound ones.
type fakeConn struct {
	mtx        sync.Mutex
	inbound    []proto.Message
	receiveErr error
	sendErr    error
	sent       []proto.Message
	closed     bool
	closeCalls int
}

func (c *fakeConn) Send(msg proto.Message) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, proto.Clone(msg))
	return nil
}

func (c *fakeConn) Receive(msg proto.Message) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.receiveErr != nil {
		return c.receiveErr
	}
	if len(c.inbound) == 0 {
		panic("fakeConn: no more scripted inbound messages")
	}
	msg.Reset()
	proto.Merge(msg, c.inbound[0])
	c.inbound = c.inbound[1:]
	return nil
}

func (c *fakeConn) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.closed = true
	c.closeCalls++
	return nil
}

func (c *fakeConn) IsClosed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.closed
}

func (c *fakeConn) Sent() []proto.Message {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]proto.Message(nil), c.sent...)
}

// fakeFactory hands out conns in order. In accept mode, it blocks until a
// conn is pushed or the factory is closed.
type fakeFactory struct {
	mtx     sync.Mutex
	conns   chan transport.Connection
	done    chan struct{}
	created int
	closed  bool
	err     error
}

var _ transport.ServerConnectionFactory = (*fakeFactory)(nil)

func newFakeFactory(conns ...transport.Connection) *fakeFactory {
	f := &fakeFactory{
		conns: make(chan transport.Connection, len(conns)+16),
		done:  make(chan struct{}),
	}
	for _, c := range conns {
		f.conns <- c
	}
	return f
}

func (f *fakeFactory) CreateConnection() (transport.Connection, error) {
	f.mtx.Lock()
	if f.err != nil {
		err := f.err
		f.mtx.Unlock()
		return nil, err
	}
	f.mtx.Unlock()
	select {
	case c := <-f.conns:
		f.mtx.Lock()
		f.created++
		f.mtx.Unlock()
		return c, nil
	case <-f.done:
		return nil, transport.ErrFactoryClosed
	}
}

func (f *fakeFactory) Close() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
	return nil
}

func (f *fakeFactory) Created() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.created
}

func (f *fakeFactory) IsClosed() bool {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.closed
}
