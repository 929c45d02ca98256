// Package rpcpb contains the envelope messages exchanged between channel and
// server. The types mirror rpcpb.proto and are encoded with golang/protobuf.
package rpcpb

import "github.com/golang/protobuf/proto"

type ErrorReason int32

const (
	ErrorReason_BAD_REQUEST_DATA      ErrorReason = 0
	ErrorReason_BAD_REQUEST_PROTO     ErrorReason = 1
	ErrorReason_SERVICE_NOT_FOUND     ErrorReason = 2
	ErrorReason_METHOD_NOT_FOUND      ErrorReason = 3
	ErrorReason_RPC_ERROR             ErrorReason = 4
	ErrorReason_RPC_FAILED            ErrorReason = 5
	ErrorReason_INVALID_REQUEST_PROTO ErrorReason = 6
	ErrorReason_BAD_RESPONSE_PROTO    ErrorReason = 7
	ErrorReason_UNKNOWN_HOST          ErrorReason = 8
	ErrorReason_IO_ERROR              ErrorReason = 9
)

var ErrorReason_name = map[int32]string{
	0: "BAD_REQUEST_DATA",
	1: "BAD_REQUEST_PROTO",
	2: "SERVICE_NOT_FOUND",
	3: "METHOD_NOT_FOUND",
	4: "RPC_ERROR",
	5: "RPC_FAILED",
	6: "INVALID_REQUEST_PROTO",
	7: "BAD_RESPONSE_PROTO",
	8: "UNKNOWN_HOST",
	9: "IO_ERROR",
}

var ErrorReason_value = map[string]int32{
	"BAD_REQUEST_DATA":      0,
	"BAD_REQUEST_PROTO":     1,
	"SERVICE_NOT_FOUND":     2,
	"METHOD_NOT_FOUND":      3,
	"RPC_ERROR":             4,
	"RPC_FAILED":            5,
	"INVALID_REQUEST_PROTO": 6,
	"BAD_RESPONSE_PROTO":    7,
	"UNKNOWN_HOST":          8,
	"IO_ERROR":              9,
}

func (x ErrorReason) Enum() *ErrorReason {
	p := new(ErrorReason)
	*p = x
	return p
}

func (x ErrorReason) String() string {
	return proto.EnumName(ErrorReason_name, int32(x))
}

func (x *ErrorReason) UnmarshalJSON(data []byte) error {
	value, err := proto.UnmarshalJSONEnum(ErrorReason_value, data, "ErrorReason")
	if err != nil {
		return err
	}
	*x = ErrorReason(value)
	return nil
}

// ServerOriginated reports whether x may appear on the wire.
// The remaining reasons are synthesized by the channel.
func (x ErrorReason) ServerOriginated() bool {
	return x <= ErrorReason_RPC_FAILED
}

type Request struct {
	ServiceName          *string  `protobuf:"bytes,1,req,name=service_name,json=serviceName" json:"service_name,omitempty"`
	MethodName           *string  `protobuf:"bytes,2,req,name=method_name,json=methodName" json:"method_name,omitempty"`
	RequestProto         []byte   `protobuf:"bytes,3,req,name=request_proto,json=requestProto" json:"request_proto,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Request) Reset()         { *m = Request{} }
func (m *Request) String() string { return proto.CompactTextString(m) }
func (*Request) ProtoMessage()    {}
func (m *Request) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_Request.Unmarshal(m, b)
}
func (m *Request) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_Request.Marshal(b, m, deterministic)
}
func (dst *Request) XXX_Merge(src proto.Message) {
	xxx_messageInfo_Request.Merge(dst, src)
}
func (m *Request) XXX_Size() int {
	return xxx_messageInfo_Request.Size(m)
}
func (m *Request) XXX_DiscardUnknown() {
	xxx_messageInfo_Request.DiscardUnknown(m)
}

var xxx_messageInfo_Request proto.InternalMessageInfo

func (m *Request) GetServiceName() string {
	if m != nil && m.ServiceName != nil {
		return *m.ServiceName
	}
	return ""
}

func (m *Request) GetMethodName() string {
	if m != nil && m.MethodName != nil {
		return *m.MethodName
	}
	return ""
}

func (m *Request) GetRequestProto() []byte {
	if m != nil {
		return m.RequestProto
	}
	return nil
}

type Response struct {
	ResponseProto        []byte       `protobuf:"bytes,1,opt,name=response_proto,json=responseProto" json:"response_proto,omitempty"`
	Error                *string      `protobuf:"bytes,2,opt,name=error" json:"error,omitempty"`
	Callback             *bool        `protobuf:"varint,3,opt,name=callback,def=0" json:"callback,omitempty"`
	ErrorReason          *ErrorReason `protobuf:"varint,4,opt,name=error_reason,json=errorReason,enum=socketrpc.ErrorReason" json:"error_reason,omitempty"`
	XXX_NoUnkeyedLiteral struct{}     `json:"-"`
	XXX_unrecognized     []byte       `json:"-"`
	XXX_sizecache        int32        `json:"-"`
}

func (m *Response) Reset()         { *m = Response{} }
func (m *Response) String() string { return proto.CompactTextString(m) }
func (*Response) ProtoMessage()    {}
func (m *Response) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_Response.Unmarshal(m, b)
}
func (m *Response) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_Response.Marshal(b, m, deterministic)
}
func (dst *Response) XXX_Merge(src proto.Message) {
	xxx_messageInfo_Response.Merge(dst, src)
}
func (m *Response) XXX_Size() int {
	return xxx_messageInfo_Response.Size(m)
}
func (m *Response) XXX_DiscardUnknown() {
	xxx_messageInfo_Response.DiscardUnknown(m)
}

var xxx_messageInfo_Response proto.InternalMessageInfo

const Default_Response_Callback bool = false

func (m *Response) GetResponseProto() []byte {
	if m != nil {
		return m.ResponseProto
	}
	return nil
}

func (m *Response) GetError() string {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ""
}

func (m *Response) GetCallback() bool {
	if m != nil && m.Callback != nil {
		return *m.Callback
	}
	return Default_Response_Callback
}

func (m *Response) GetErrorReason() ErrorReason {
	if m != nil && m.ErrorReason != nil {
		return *m.ErrorReason
	}
	return ErrorReason_BAD_REQUEST_DATA
}

func init() {
	proto.RegisterType((*Request)(nil), "socketrpc.Request")
	proto.RegisterType((*Response)(nil), "socketrpc.Response")
	proto.RegisterEnum("socketrpc.ErrorReason", ErrorReason_name, ErrorReason_value)
}
