package rpc

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/util/semaphore"
)

var ErrExecutorShutdown = errors.New("executor is shut down")

// Executor runs tasks submitted by the server loop and the asynchronous channel.
type Executor interface {
	// Execute returns ErrExecutorShutdown after Shutdown.
	Execute(task func()) error
	Shutdown()
}

type sameThreadExecutor struct {
	mtx      sync.Mutex
	shutdown bool
}

// NewSameThreadExecutor returns an Executor that runs each task
// on the goroutine that calls Execute.
func NewSameThreadExecutor() Executor {
	return &sameThreadExecutor{}
}

func (e *sameThreadExecutor) Execute(task func()) error {
	e.mtx.Lock()
	shutdown := e.shutdown
	e.mtx.Unlock()
	if shutdown {
		return ErrExecutorShutdown
	}
	task()
	return nil
}

func (e *sameThreadExecutor) Shutdown() {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.shutdown = true
}

// GoExecutor runs each task on a new goroutine.
type GoExecutor struct {
	mtx      sync.Mutex
	shutdown bool
	wg       sync.WaitGroup
}

func NewGoExecutor() *GoExecutor {
	return &GoExecutor{}
}

func (e *GoExecutor) Execute(task func()) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.shutdown {
		return ErrExecutorShutdown
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		task()
	}()
	return nil
}

// Shutdown does not wait for running tasks, use Wait for that.
func (e *GoExecutor) Shutdown() {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.shutdown = true
}

func (e *GoExecutor) Wait() { e.wg.Wait() }

// WorkerPool runs at most n tasks concurrently.
// Execute blocks while all workers are busy.
type WorkerPool struct {
	sem    *semaphore.S
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(n int) *WorkerPool {
	if n < 1 {
		panic("worker pool size must be positive")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		sem:    semaphore.New(int64(n)),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *WorkerPool) Execute(task func()) error {
	guard, err := p.sem.Acquire(p.ctx)
	if err != nil {
		return ErrExecutorShutdown
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer guard.Release()
		task()
	}()
	return nil
}

// Shutdown unblocks pending Execute calls. Running tasks are not interrupted.
func (p *WorkerPool) Shutdown() { p.cancel() }

func (p *WorkerPool) Wait() { p.wg.Wait() }
