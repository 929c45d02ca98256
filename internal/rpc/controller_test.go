package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/socketrpc/socketrpc/internal/rpcpb"
)

func TestControllerZeroValueFailed(t *testing.T) {
	var c Controller
	assert.True(t, c.Failed())
	assert.Equal(t, "", c.ErrorText())
	_, ok := c.ErrorReason()
	assert.False(t, ok)
}

func TestControllerSetFailed(t *testing.T) {
	c := newServerController()
	assert.False(t, c.Failed())
	c.SetFailed("it broke")
	assert.True(t, c.Failed())
	assert.Equal(t, "it broke", c.ErrorText())
	_, ok := c.ErrorReason()
	assert.False(t, ok)
}

func TestControllerResetClearsAll(t *testing.T) {
	c := &Controller{}
	c.begin()
	c.fail(newError(rpcpb.ErrorReason_IO_ERROR, nil, "connection lost"))
	reason, ok := c.ErrorReason()
	assert.True(t, ok)
	assert.Equal(t, rpcpb.ErrorReason_IO_ERROR, reason)

	c.Reset()
	assert.True(t, c.Failed())
	assert.Equal(t, "", c.ErrorText())
	_, ok = c.ErrorReason()
	assert.False(t, ok)
}

func TestControllerCancelNotSupported(t *testing.T) {
	c := &Controller{}
	assert.Equal(t, ErrCancelNotSupported, c.StartCancel())
	_, err := c.IsCanceled()
	assert.Equal(t, ErrCancelNotSupported, err)
	assert.Equal(t, ErrCancelNotSupported, c.NotifyOnCancel(func() {}))
}

func TestAsErrorWalksCauses(t *testing.T) {
	inner := newError(rpcpb.ErrorReason_RPC_FAILED, nil, "failed")
	wrapped := &Error{Reason: rpcpb.ErrorReason_RPC_ERROR, Msg: "outer", cause: inner}
	e, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, wrapped, e)

	_, ok = AsError(NewServiceError("plain"))
	assert.False(t, ok)

	resp := errorResponse(NewServiceError("plain"))
	assert.Equal(t, rpcpb.ErrorReason_RPC_ERROR, resp.GetErrorReason())
	assert.Equal(t, "plain", resp.GetError())
}
