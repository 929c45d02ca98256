package rpc

import (
	"sync"

	"github.com/socketrpc/socketrpc/internal/rpcpb"
)

// Controller carries the status of a single call.
//
// A Controller that has not been used in a call reports Failed.
// The channel marks it successful when a call begins and records any failure.
// On the server, service methods receive a Controller that starts out successful
// and may call SetFailed to report an application-level failure.
//
// Reuse a Controller for sequential calls only, Reset is not required in between.
type Controller struct {
	mtx       sync.Mutex
	success   bool
	errorText string
	reason    rpcpb.ErrorReason
	hasReason bool
}

func newServerController() *Controller {
	return &Controller{success: true}
}

func (c *Controller) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.success = false
	c.errorText = ""
	c.reason = 0
	c.hasReason = false
}

func (c *Controller) begin() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.success = true
	c.errorText = ""
	c.reason = 0
	c.hasReason = false
}

func (c *Controller) Failed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return !c.success
}

func (c *Controller) ErrorText() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.errorText
}

// ErrorReason returns false if no reason was recorded,
// e.g. after SetFailed.
func (c *Controller) ErrorReason() (rpcpb.ErrorReason, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.reason, c.hasReason
}

func (c *Controller) SetFailed(reason string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.success = false
	c.errorText = reason
}

func (c *Controller) fail(err *Error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.success = false
	c.errorText = err.Msg
	c.reason = err.Reason
	c.hasReason = true
}

func (c *Controller) StartCancel() error {
	return ErrCancelNotSupported
}

func (c *Controller) IsCanceled() (bool, error) {
	return false, ErrCancelNotSupported
}

func (c *Controller) NotifyOnCancel(callback func()) error {
	return ErrCancelNotSupported
}
