package tcp

import (
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socketrpc/socketrpc/internal/rpcpb"
	"github.com/socketrpc/socketrpc/internal/transport"
)

func listenLoopback(t *testing.T, delimited bool) *Listener {
	l, err := Listen(ListenOptions{BindAddress: "127.0.0.1", Backlog: 8}, delimited)
	require.NoError(t, err)
	return l
}

func TestRoundTrip(t *testing.T) {
	for _, delimited := range []bool{false, true} {
		l := listenLoopback(t, delimited)

		serverErr := make(chan error, 1)
		go func() {
			conn, err := l.CreateConnection()
			if err != nil {
				serverErr <- err
				return
			}
			defer conn.Close()
			var req rpcpb.Request
			if err := conn.Receive(&req); err != nil {
				serverErr <- err
				return
			}
			serverErr <- conn.Send(&rpcpb.Response{
				ResponseProto: []byte(req.GetMethodName()),
				Callback:      proto.Bool(true),
			})
		}()

		c := NewConnecter("127.0.0.1", uint16(l.Addr().Port), delimited)
		conn, err := c.CreateConnection()
		require.NoError(t, err)
		require.NoError(t, conn.Send(rpcpb.NewRequest("svc", "Method", nil)))
		var res rpcpb.Response
		require.NoError(t, conn.Receive(&res))
		assert.Equal(t, []byte("Method"), res.GetResponseProto())
		require.NoError(t, conn.Close())
		assert.True(t, conn.IsClosed())

		require.NoError(t, <-serverErr)
		require.NoError(t, l.Close())
	}
}

func TestCloseInterruptsAccept(t *testing.T) {
	l := listenLoopback(t, false)

	errC := make(chan error)
	go func() {
		_, err := l.CreateConnection()
		errC <- err
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	select {
	case err := <-errC:
		assert.Equal(t, transport.ErrFactoryClosed, err)
	case <-time.After(5 * time.Second):
		t.Fatal("accept not interrupted")
	}
}

func TestUnknownHost(t *testing.T) {
	c := NewConnecter("no-such-host.invalid", 8090, false)
	_, err := c.CreateConnection()
	require.Error(t, err)
	assert.True(t, transport.IsUnknownHost(err), "%T %v", err, err)
}

func TestConnectionRefusedIsNotUnknownHost(t *testing.T) {
	l := listenLoopback(t, false)
	port := uint16(l.Addr().Port)
	require.NoError(t, l.Close())

	_, err := NewConnecter("127.0.0.1", port, false).CreateConnection()
	require.Error(t, err)
	assert.False(t, transport.IsUnknownHost(err))
}

func TestListenPortInUse(t *testing.T) {
	l := listenLoopback(t, false)
	defer l.Close()
	_, err := Listen(ListenOptions{BindAddress: "127.0.0.1", Port: uint16(l.Addr().Port)}, false)
	assert.Error(t, err)
}
