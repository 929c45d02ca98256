package transport

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/util/chainlock"
	"github.com/socketrpc/socketrpc/internal/util/semaphore"
)

// PersistentFactory shares a single underlying connection among sequential exchanges.
//
// Each call to CreateConnection leases the shared connection.
// Only one lease is outstanding at any time, further callers block until
// the current lease is closed and are then served in FIFO order.
// Closing a lease does not close the shared connection.
//
// The shared connection is created lazily by the inner factory on the first lease.
// If it breaks, the factory does not reconnect: subsequent leases fail.
// In the server role, a break also closes the factory, which ends the server loop.
//
// The inner connections must be delimited, undelimited framing allows only
// one message per direction.
type PersistentFactory struct {
	inner  ConnectionFactory
	server bool

	gate *semaphore.S
	// cancelled on Close to unblock callers waiting for the gate
	ctx    context.Context
	cancel context.CancelFunc

	mtx    *chainlock.L
	conn   Connection
	err    error // the error that broke conn
	closed bool
}

var _ ServerConnectionFactory = (*PersistentFactory)(nil)

// NewPersistentFactory decorates a client factory.
// If inner implements io.Closer, it is closed together with the PersistentFactory.
func NewPersistentFactory(inner ConnectionFactory) *PersistentFactory {
	return newPersistentFactory(inner, false)
}

// NewPersistentServerFactory decorates a server factory.
// The first lease blocks until the inner factory accepts a connection.
func NewPersistentServerFactory(inner ServerConnectionFactory) *PersistentFactory {
	return newPersistentFactory(inner, true)
}

func newPersistentFactory(inner ConnectionFactory, server bool) *PersistentFactory {
	ctx, cancel := context.WithCancel(context.Background())
	return &PersistentFactory{
		inner:  inner,
		server: server,
		gate:   semaphore.New(1),
		ctx:    ctx,
		cancel: cancel,
		mtx:    chainlock.New(),
	}
}

func (f *PersistentFactory) CreateConnection() (Connection, error) {
	begin := time.Now()
	guard, err := f.gate.Acquire(f.ctx)
	if err != nil {
		return nil, ErrFactoryClosed
	}
	prom.leaseWaits.Observe(time.Since(begin).Seconds())

	conn, err := f.shared()
	if err != nil {
		guard.Release()
		return nil, err
	}
	return &lease{f: f, conn: conn, guard: guard}, nil
}

// shared must be called with the gate held.
func (f *PersistentFactory) shared() (Connection, error) {
	defer f.mtx.Lock().Unlock()
	if f.closed {
		return nil, ErrFactoryClosed
	}
	if f.err != nil {
		return nil, errors.Wrap(f.err, "persistent connection is broken")
	}
	if f.conn != nil {
		return f.conn, nil
	}

	var conn Connection
	var err error
	// A server factory blocks in accept, Close must be able to interrupt it.
	f.mtx.DropWhile(func() {
		conn, err = f.inner.CreateConnection()
	})
	if err != nil {
		if f.closed {
			return nil, ErrFactoryClosed
		}
		return nil, err
	}
	if f.closed {
		conn.Close()
		return nil, ErrFactoryClosed
	}
	f.conn = conn
	return conn, nil
}

func (f *PersistentFactory) fail(cause error) {
	if IsCodecError(cause) {
		// framing is intact
		return
	}
	defer f.mtx.Lock().Unlock()
	if f.closed || f.err != nil {
		return
	}
	prom.failures.Inc()
	f.err = cause
	f.conn.Close()
	if f.server {
		f.closeLocked()
	}
}

// Broken returns the error that broke the shared connection, if any.
func (f *PersistentFactory) Broken() error {
	defer f.mtx.Lock().Unlock()
	return f.err
}

// Close closes the shared connection and the inner factory.
// Callers blocked in CreateConnection return ErrFactoryClosed.
func (f *PersistentFactory) Close() error {
	defer f.mtx.Lock().Unlock()
	if f.closed {
		return nil
	}
	return f.closeLocked()
}

func (f *PersistentFactory) closeLocked() error {
	f.closed = true
	f.cancel()
	var connErr, innerErr error
	if f.conn != nil {
		connErr = f.conn.Close()
	}
	if c, ok := f.inner.(io.Closer); ok {
		innerErr = c.Close()
	}
	if connErr != nil {
		return errors.Wrap(connErr, "cannot close persistent connection")
	}
	if innerErr != nil {
		return errors.Wrap(innerErr, "cannot close inner connection factory")
	}
	return nil
}

func (f *PersistentFactory) IsClosed() bool {
	defer f.mtx.Lock().Unlock()
	return f.closed
}

type lease struct {
	f    *PersistentFactory
	conn Connection

	mtx      sync.Mutex
	guard    *semaphore.AcquireGuard
	released bool
}

var _ Connection = (*lease)(nil)

func (l *lease) isReleased() bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.released
}

func (l *lease) Send(msg proto.Message) error {
	if l.isReleased() {
		return ErrLeaseReleased
	}
	if err := l.conn.Send(msg); err != nil {
		l.f.fail(err)
		return err
	}
	return nil
}

func (l *lease) Receive(msg proto.Message) error {
	if l.isReleased() {
		return ErrLeaseReleased
	}
	if err := l.conn.Receive(msg); err != nil {
		l.f.fail(err)
		return err
	}
	return nil
}

// Close releases the lease. The shared connection stays open.
func (l *lease) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.released {
		return nil
	}
	l.released = true
	l.guard.Release()
	return nil
}

// IsClosed reports whether the shared connection is closed.
func (l *lease) IsClosed() bool {
	return l.conn.IsClosed()
}
