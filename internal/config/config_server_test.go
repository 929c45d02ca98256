package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigEmptyFails(t *testing.T) {
	conf, err := testConfig(t, "\n")
	assert.Nil(t, conf)
	assert.Error(t, err)
}

func TestServerDefaults(t *testing.T) {
	conf := testValidConfig(t, `
server:
  serve:
    type: tcp
    port: 8090
`)
	s := conf.Server
	require.NotNil(t, s)
	assert.False(t, s.Delimited)
	assert.False(t, s.Persistent)
	assert.Equal(t, DispatchBlocking, s.Dispatch)
	assert.True(t, s.CloseConnectionAfterInvokingService)
	assert.Equal(t, 0, s.Workers)
	assert.Equal(t, float64(0), s.AcceptRate)
	assert.Equal(t, 1, s.AcceptBurst)

	serve := s.Serve.Ret.(*TCPServe)
	assert.Equal(t, uint16(8090), serve.Port)
	assert.Equal(t, ":8090", serve.Address())
	assert.Equal(t, 0, serve.Backlog)
	assert.False(t, serve.FreeBind)

	assert.Nil(t, conf.Client)
}

func TestServerBindAddress(t *testing.T) {
	conf := testValidConfig(t, `
server:
  serve:
    type: tcp
    port: 8090
    bind_address: "::1"
`)
	assert.Equal(t, "[::1]:8090", conf.Server.Serve.Ret.(*TCPServe).Address())
}

func TestServerValidation(t *testing.T) {
	tcs := map[string]string{
		"persistent requires delimited": `
server:
  serve: {type: tcp, port: 8090}
  persistent: true
`,
		"unknown dispatch": `
server:
  serve: {type: tcp, port: 8090}
  dispatch: threaded
`,
		"missing port": `
server:
  serve: {type: tcp}
`,
		"unknown serve type": `
server:
  serve: {type: udp, port: 8090}
`,
		"negative workers": `
server:
  serve: {type: tcp, port: 8090}
  workers: -1
`,
		"local without name": `
server:
  serve: {type: local}
`,
		"unknown field": `
server:
  serve: {type: tcp, port: 8090}
  timeout: 10s
`,
	}
	for name, input := range tcs {
		t.Run(name, func(t *testing.T) {
			conf, err := testConfig(t, input)
			assert.Error(t, err)
			assert.Nil(t, conf)
		})
	}
}

func TestClientConfig(t *testing.T) {
	conf := testValidConfig(t, `
client:
  connect:
    type: tcp
    host: localhost
    port: 8090
  delimited: true
  persistent: true
`)
	c := conf.Client
	require.NotNil(t, c)
	assert.True(t, c.Persistent)
	assert.Equal(t, 0, c.CompletionWorkers)
	assert.Equal(t, "localhost:8090", c.Connect.Ret.(*TCPConnect).Address())

	_, err := testConfig(t, `
client:
  connect: {type: tcp, port: 8090}
`)
	assert.Error(t, err)
}

func TestLocalTransportConfig(t *testing.T) {
	conf := testValidConfig(t, `
server:
  serve:
    type: local
    listener_name: inproc
  delimited: true
client:
  connect:
    type: local
    listener_name: inproc
  delimited: true
`)
	assert.Equal(t, "inproc", conf.Server.Serve.Ret.(*LocalServe).ListenerName)
	assert.Equal(t, "inproc", conf.Client.Connect.Ret.(*LocalConnect).ListenerName)
}
