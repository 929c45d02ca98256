package rpc

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/rpcpb"
)

// Error is a classified rpc failure.
// Server dispatch errors are converted into error-only responses,
// client-side errors are also reflected onto the call's Controller.
type Error struct {
	Reason rpcpb.ErrorReason
	Msg    string
	cause  error
}

func newError(reason rpcpb.ErrorReason, cause error, format string, args ...interface{}) *Error {
	return &Error{Reason: reason, Msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Reason, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

// Cause returns the underlying error, if any.
func (e *Error) Cause() error { return e.cause }

type causer interface {
	Cause() error
}

// AsError returns the first *Error in err's chain of causes.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}

// ServiceError is returned by blocking methods to report failure to the client.
// Any error returned by a blocking method is treated the same way,
// ServiceError only saves defining one.
type ServiceError struct {
	Msg string
}

func NewServiceError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ServiceError) Error() string { return e.Msg }

var ErrCancelNotSupported = errors.New("cannot cancel request in socket rpc")

// PanicError carries the value a service method panicked with.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

func panicCause(v interface{}) error {
	if err, ok := v.(error); ok {
		return err
	}
	return &PanicError{v}
}

// errorResponse converts a dispatch error into an error-only response.
// Errors that are not an *Error classify as RPC_ERROR.
func errorResponse(err error) *rpcpb.Response {
	if e, ok := AsError(err); ok {
		return rpcpb.NewErrorResponse(e.Reason, e.Msg)
	}
	return rpcpb.NewErrorResponse(rpcpb.ErrorReason_RPC_ERROR, err.Error())
}
