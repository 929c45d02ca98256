package rpcpb

import (
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRequiredFields(t *testing.T) {
	_, err := proto.Marshal(&Request{ServiceName: proto.String("svc")})
	require.Error(t, err)
	_, ok := err.(*proto.RequiredNotSetError)
	assert.True(t, ok, "%T", err)

	b, err := proto.Marshal(NewRequest("svc", "method", nil))
	require.NoError(t, err)

	var decoded Request
	require.NoError(t, proto.Unmarshal(b, &decoded))
	assert.Equal(t, "svc", decoded.GetServiceName())
	assert.Equal(t, "method", decoded.GetMethodName())
	assert.Len(t, decoded.GetRequestProto(), 0)
}

func TestRequestUnmarshalMissingFieldFails(t *testing.T) {
	// only service_name is present
	partial, err := proto.Marshal(&Response{Error: proto.String("x")})
	require.NoError(t, err)
	var req Request
	assert.Error(t, proto.Unmarshal(partial, &req))
}

func TestResponseDefaults(t *testing.T) {
	var res Response
	require.NoError(t, proto.Unmarshal(nil, &res))
	assert.False(t, res.GetCallback())
	assert.False(t, res.HasError())
	assert.False(t, res.HasResponseProto())

	res = *NewErrorResponse(ErrorReason_SERVICE_NOT_FOUND, "no such service")
	b, err := proto.Marshal(&res)
	require.NoError(t, err)
	var decoded Response
	require.NoError(t, proto.Unmarshal(b, &decoded))
	assert.True(t, decoded.HasError())
	assert.Equal(t, "no such service", decoded.GetError())
	assert.Equal(t, ErrorReason_SERVICE_NOT_FOUND, decoded.GetErrorReason())
	assert.False(t, decoded.GetCallback())
}

func TestErrorReason(t *testing.T) {
	assert.Equal(t, "IO_ERROR", ErrorReason_IO_ERROR.String())
	for r := ErrorReason_BAD_REQUEST_DATA; r <= ErrorReason_RPC_FAILED; r++ {
		assert.True(t, r.ServerOriginated(), "%s", r)
	}
	for r := ErrorReason_INVALID_REQUEST_PROTO; r <= ErrorReason_IO_ERROR; r++ {
		assert.False(t, r.ServerOriginated(), "%s", r)
	}
}
