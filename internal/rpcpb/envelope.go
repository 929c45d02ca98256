package rpcpb

import "github.com/golang/protobuf/proto"

func NewRequest(serviceName, methodName string, payload []byte) *Request {
	if payload == nil {
		// a required bytes field must be non-nil to count as set
		payload = []byte{}
	}
	return &Request{
		ServiceName:  proto.String(serviceName),
		MethodName:   proto.String(methodName),
		RequestProto: payload,
	}
}

// NewErrorResponse builds an error-only response. callback is left unset,
// which reads as false.
func NewErrorResponse(reason ErrorReason, msg string) *Response {
	return &Response{
		Error:       proto.String(msg),
		ErrorReason: reason.Enum(),
	}
}

func (m *Response) HasError() bool {
	return m != nil && m.Error != nil
}

func (m *Response) HasResponseProto() bool {
	return m != nil && m.ResponseProto != nil
}
