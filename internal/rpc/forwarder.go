package rpc

import (
	"reflect"
	"sync"

	"github.com/golang/protobuf/proto"

	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/rpcpb"
)

// Forwarder is the server-side service registry and dispatcher.
//
// Services must be registered before the first dispatch.
// Lookups may happen concurrently.
type Forwarder struct {
	log logger.Logger

	mtx              sync.RWMutex
	services         map[string]Service
	blockingServices map[string]BlockingService
}

func NewForwarder(log logger.Logger) *Forwarder {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Forwarder{
		log:              log,
		services:         make(map[string]Service),
		blockingServices: make(map[string]BlockingService),
	}
}

func (f *Forwarder) RegisterService(s Service) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.services[s.Descriptor().FullName()] = s
}

func (f *Forwarder) RegisterBlockingService(s BlockingService) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.blockingServices[s.Descriptor().FullName()] = s
}

// exactly one of service and blocking is set
type resolvedCall struct {
	method   *MethodDescriptor
	service  Service
	blocking BlockingService
	request  proto.Message
}

func (f *Forwarder) lookup(name string) (*ServiceDescriptor, Service, BlockingService) {
	f.mtx.RLock()
	defer f.mtx.RUnlock()
	if s, ok := f.services[name]; ok {
		return s.Descriptor(), s, nil
	}
	if s, ok := f.blockingServices[name]; ok {
		return s.Descriptor(), nil, s
	}
	return nil, nil, nil
}

func (f *Forwarder) resolve(req *rpcpb.Request) (*resolvedCall, error) {
	desc, service, blocking := f.lookup(req.GetServiceName())
	if desc == nil {
		return nil, newError(rpcpb.ErrorReason_SERVICE_NOT_FOUND, nil,
			"could not find service %s", req.GetServiceName())
	}
	method := desc.FindMethodByName(req.GetMethodName())
	if method == nil {
		return nil, newError(rpcpb.ErrorReason_METHOD_NOT_FOUND, nil,
			"could not find method %s in service %s", req.GetMethodName(), desc.FullName())
	}
	request := method.NewRequest()
	// Unmarshal reports missing required fields as *proto.RequiredNotSetError
	if err := proto.Unmarshal(req.GetRequestProto(), request); err != nil {
		return nil, newError(rpcpb.ErrorReason_BAD_REQUEST_PROTO, err,
			"invalid request proto for method %s", method.FullName())
	}
	return &resolvedCall{method, service, blocking, request}, nil
}

func (f *Forwarder) invokeAsync(r *resolvedCall, c *Controller, done Done) (err error) {
	defer func() {
		if p := recover(); p != nil {
			f.log.WithField("method", r.method.FullName()).WithField("panic", p).Error("service method panicked")
			err = newError(rpcpb.ErrorReason_RPC_ERROR, panicCause(p), "error running method %s", r.method.FullName())
		}
	}()
	r.service.CallMethod(r.method, c, r.request, done)
	return nil
}

func (f *Forwarder) invokeBlocking(r *resolvedCall, c *Controller) (resp proto.Message, err error) {
	defer func() {
		if p := recover(); p != nil {
			f.log.WithField("method", r.method.FullName()).WithField("panic", p).Error("service method panicked")
			resp = nil
			err = newError(rpcpb.ErrorReason_RPC_ERROR, panicCause(p), "error running method %s", r.method.FullName())
		}
	}()
	resp, err = r.blocking.CallBlockingMethod(r.method, c, r.request)
	if err != nil {
		return nil, newError(rpcpb.ErrorReason_RPC_FAILED, err, "%s", err.Error())
	}
	return resp, nil
}

// completionRecorder captures the first invocation of a completion
// until it is sealed. Later invocations are ignored.
type completionRecorder struct {
	mtx     sync.Mutex
	sealed  bool
	invoked bool
	payload proto.Message
}

func (r *completionRecorder) done(payload proto.Message) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.sealed || r.invoked {
		return
	}
	r.invoked = true
	r.payload = payload
}

func (r *completionRecorder) seal() (invoked bool, payload proto.Message) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.sealed = true
	return r.invoked, r.payload
}

// DoBlockingRpc dispatches req and returns the response.
// For an asynchronous service, the completion state at the time the
// service method returns decides the response.
//
// The returned error is an *Error classifying a dispatch failure.
func (f *Forwarder) DoBlockingRpc(req *rpcpb.Request) (*rpcpb.Response, error) {
	r, err := f.resolve(req)
	if err != nil {
		return nil, err
	}
	f.log.WithField("method", r.method.FullName()).Debug("dispatch blocking rpc")
	c := newServerController()
	if r.blocking != nil {
		payload, err := f.invokeBlocking(r, c)
		if err != nil {
			return nil, err
		}
		return buildResponse(c, true, payload)
	}
	var rec completionRecorder
	if err := f.invokeAsync(r, c, rec.done); err != nil {
		rec.seal()
		return nil, err
	}
	invoked, payload := rec.seal()
	return buildResponse(c, invoked, payload)
}

// DoRpc dispatches req. done is invoked at most once, with the response,
// when the service method invokes its completion.
// It may be invoked from any goroutine, before or after DoRpc returns.
//
// If DoRpc returns an error, done is not invoked.
func (f *Forwarder) DoRpc(req *rpcpb.Request, done func(*rpcpb.Response)) error {
	r, err := f.resolve(req)
	if err != nil {
		return err
	}
	f.log.WithField("method", r.method.FullName()).Debug("dispatch rpc")
	c := newServerController()
	if r.blocking != nil {
		payload, err := f.invokeBlocking(r, c)
		if err != nil {
			return err
		}
		resp, err := buildResponse(c, true, payload)
		if err != nil {
			return err
		}
		done(resp)
		return nil
	}

	var once sync.Once
	complete := func(payload proto.Message) {
		once.Do(func() {
			resp, err := buildResponse(c, true, payload)
			if err != nil {
				f.log.WithError(err).WithField("method", r.method.FullName()).Error("cannot build response")
				resp = errorResponse(err)
			}
			done(resp)
		})
	}
	if err := f.invokeAsync(r, c, complete); err != nil {
		once.Do(func() {}) // the error is reported instead
		return err
	}
	return nil
}

func isNilMessage(m proto.Message) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func buildResponse(c *Controller, invoked bool, payload proto.Message) (*rpcpb.Response, error) {
	resp := &rpcpb.Response{}
	if invoked {
		resp.Callback = proto.Bool(true)
		if !isNilMessage(payload) {
			b, err := proto.Marshal(payload)
			if err != nil {
				return nil, newError(rpcpb.ErrorReason_RPC_ERROR, err, "cannot encode response")
			}
			if b == nil {
				b = []byte{}
			}
			resp.ResponseProto = b
		}
	}
	if c.Failed() {
		resp.Error = proto.String(c.ErrorText())
		resp.ErrorReason = rpcpb.ErrorReason_RPC_FAILED.Enum()
	}
	return resp, nil
}
