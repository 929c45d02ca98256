// Package chainlock implements a mutex whose Lock and Unlock
// methods return the lock itself, to enable chaining.
//
// Intended Usage
//
//   defer f.mtx.Lock().Unlock()
//   // drop lock while blocking in Accept
//   f.mtx.DropWhile(func() {
//       conn, err = inner.CreateConnection()
//   })
//
package chainlock

import "sync"

type L struct {
	mtx sync.Mutex
}

func New() *L {
	return &L{}
}

func (l *L) Lock() *L {
	l.mtx.Lock()
	return l
}

func (l *L) Unlock() *L {
	l.mtx.Unlock()
	return l
}

// DropWhile must be called with l held.
func (l *L) DropWhile(f func()) {
	defer l.Unlock().Lock()
	f()
}

func (l *L) HoldWhile(f func()) {
	defer l.Lock().Unlock()
	f()
}
