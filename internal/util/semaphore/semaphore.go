// Package semaphore wraps golang.org/x/sync/semaphore with release guards.
// Waiters are served in FIFO order.
package semaphore

import (
	"context"

	wsemaphore "golang.org/x/sync/semaphore"
)

type S struct {
	ws *wsemaphore.Weighted
}

func New(max int64) *S {
	return &S{wsemaphore.NewWeighted(max)}
}

type AcquireGuard struct {
	s        *S
	released bool
}

// Acquire blocks until a unit is available or ctx is done.
// The returned AcquireGuard is not goroutine-safe.
func (s *S) Acquire(ctx context.Context) (*AcquireGuard, error) {
	if err := s.ws.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	// x/sync takes the fast path without looking at ctx
	if err := ctx.Err(); err != nil {
		s.ws.Release(1)
		return nil, err
	}
	return &AcquireGuard{s, false}, nil
}

// TryAcquire returns nil if no unit is immediately available.
func (s *S) TryAcquire() *AcquireGuard {
	if !s.ws.TryAcquire(1) {
		return nil
	}
	return &AcquireGuard{s, false}
}

// Release is idempotent and safe to call on a nil guard.
func (g *AcquireGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.s.ws.Release(1)
}
