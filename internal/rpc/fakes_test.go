package rpc

import (
	"sync"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/socketrpc/socketrpc/internal/rpcpb"
	"github.com/socketrpc/socketrpc/internal/transport"
)

type testRequest struct {
	StrData              *string  `protobuf:"bytes,1,req,name=str_data,json=strData" json:"str_data,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *testRequest) Reset()         { *m = testRequest{} }
func (m *testRequest) String() string { return proto.CompactTextString(m) }
func (*testRequest) ProtoMessage()    {}

func (m *testRequest) GetStrData() string {
	if m != nil && m.StrData != nil {
		return *m.StrData
	}
	return ""
}

type testResponse struct {
	StrData              *string  `protobuf:"bytes,1,req,name=str_data,json=strData" json:"str_data,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *testResponse) Reset()         { *m = testResponse{} }
func (m *testResponse) String() string { return proto.CompactTextString(m) }
func (*testResponse) ProtoMessage()    {}

func (m *testResponse) GetStrData() string {
	if m != nil && m.StrData != nil {
		return *m.StrData
	}
	return ""
}

func init() {
	proto.RegisterType((*testRequest)(nil), "rpctest.Request")
	proto.RegisterType((*testResponse)(nil), "rpctest.Response")
}

var (
	testMethod = &MethodDescriptor{
		Name:        "testMethod",
		NewRequest:  func() proto.Message { return &testRequest{} },
		NewResponse: func() proto.Message { return &testResponse{} },
	}
	testServiceDesc = NewServiceDescriptor("TestService", testMethod)

	goodRequest  = &testRequest{StrData: proto.String("Request Data")}
	goodResponse = &testResponse{StrData: proto.String("Response Data")}
)

func mustMarshal(m proto.Message) []byte {
	b, err := proto.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

func goodRpcRequest() *rpcpb.Request {
	return rpcpb.NewRequest("TestService", "testMethod", mustMarshal(goodRequest))
}

// fakeService behaves as configured, for both the asynchronous and the
// blocking service form.
type fakeService struct {
	response   proto.Message // passed to the completion or returned
	noCallback bool          // asynchronous form returns without completing
	failWith   string        // calls SetFailed
	panicWith  interface{}
	err        error // returned by the blocking form

	mtx      sync.Mutex
	requests []proto.Message
	done     Done
}

func (s *fakeService) Descriptor() *ServiceDescriptor { return testServiceDesc }

func (s *fakeService) record(request proto.Message, done Done) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.requests = append(s.requests, request)
	s.done = done
}

func (s *fakeService) Requests() []proto.Message {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return append([]proto.Message(nil), s.requests...)
}

// Done returns the completion of the last asynchronous call.
func (s *fakeService) Done() Done {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.done
}

func (s *fakeService) CallMethod(m *MethodDescriptor, c *Controller, request proto.Message, done Done) {
	s.record(request, done)
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.failWith != "" {
		c.SetFailed(s.failWith)
	}
	if !s.noCallback {
		done(s.response)
	}
}

type fakeBlockingService struct {
	*fakeService
}

func (s fakeBlockingService) CallBlockingMethod(m *MethodDescriptor, c *Controller, request proto.Message) (proto.Message, error) {
	s.record(request, nil)
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.failWith != "" {
		c.SetFailed(s.failWith)
	}
	return s.response, s.err
}

// fakeConn replays scripted inbound messages and records outbound ones.
type fakeConn struct {
	mtx        sync.Mutex
	inbound    []proto.Message
	receiveErr error
	sendErr    error
	sent       []proto.Message
	closeCalls int
}

func (c *fakeConn) Send(msg proto.Message) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	if _, err := proto.Marshal(msg); err != nil {
		return &transport.CodecError{Op: "marshal", Err: err}
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
		return transport.ErrClosed
	}
	msg.Reset()
	proto.Merge(msg, c.inbound[0])
	c.inbound = c.inbound[1:]
	return nil
}

func (c *fakeConn) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.closeCalls++
	return nil
}

func (c *fakeConn) IsClosed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.closeCalls > 0
}

func (c *fakeConn) Sent() []proto.Message {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]proto.Message(nil), c.sent...)
}

func (c *fakeConn) CloseCalls() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.closeCalls
}

// sentResponse returns the single response sent on c.
func (c *fakeConn) sentResponse() *rpcpb.Response {
	sent := c.Sent()
	if len(sent) != 1 {
		return nil
	}
	return sent[0].(*rpcpb.Response)
}

// fakeFactory hands out conns in order and blocks once they are exhausted,
// until it is closed.
type fakeFactory struct {
	mtx     sync.Mutex
	conns   chan transport.Connection
	done    chan struct{}
	closed  bool
	err     error
	created int
}

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
	err := f.err
	f.mtx.Unlock()
	if err != nil {
		return nil, err
	}
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

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 5s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
