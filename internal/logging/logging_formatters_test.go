package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/logger"
)

func testEntry() *logger.Entry {
	return &logger.Entry{
		Level:   logger.Warn,
		Message: "cannot close connection",
		Time:    time.Date(2019, 9, 3, 12, 0, 0, 0, time.UTC),
		Fields: logger.Fields{
			SubsysField:       "rpc.server",
			RequestIDField:    "abc",
			logger.FieldError: "broken pipe",
		},
	}
}

func TestHumanFormatter(t *testing.T) {
	f := &HumanFormatter{}
	f.SetMetadataFlags(MetadataAll &^ MetadataColor)
	out, err := f.Format(testEntry())
	require.NoError(t, err)
	assert.Equal(t, `2019-09-03T12:00:00Z [WARN][rpc.server][abc]: cannot close connection err="broken pipe"`, string(out))

	f.SetMetadataFlags(MetadataNone)
	f.SetIgnoreFields([]string{RequestIDField})
	out, err = f.Format(testEntry())
	require.NoError(t, err)
	assert.Equal(t, `[rpc.server]: cannot close connection err="broken pipe"`, string(out))
}

func TestHumanFormatterColor(t *testing.T) {
	f := &HumanFormatter{}
	f.SetMetadataFlags(MetadataLevel | MetadataColor)
	out, err := f.Format(testEntry())
	require.NoError(t, err)
	assert.Contains(t, string(out), "\x1b[")
	assert.Contains(t, string(out), "WARN")
}

func TestLogfmtFormatter(t *testing.T) {
	f := &LogfmtFormatter{}
	f.SetMetadataFlags(MetadataLevel)
	out, err := f.Format(testEntry())
	require.NoError(t, err)
	assert.Equal(t, `level=warn subsystem=rpc.server req=abc msg="cannot close connection" err="broken pipe"`, string(out))
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{}
	out, err := f.Format(testEntry())
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "warn", m[FieldLevel])
	assert.Equal(t, "cannot close connection", m[FieldMessage])
	assert.Equal(t, "rpc.server", m[SubsysField])
}

func TestWriterOutletAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	o := NewWriterOutlet(NoFormatter{}, &buf)
	require.NoError(t, o.WriteEntry(*testEntry()))
	require.NoError(t, o.WriteEntry(*testEntry()))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestLogSubsystem(t *testing.T) {
	var buf bytes.Buffer
	outlets := logger.NewOutlets()
	f := &HumanFormatter{}
	outlets.Add(NewWriterOutlet(f, &buf), logger.Debug)
	log := LogSubsystem(logger.NewLogger(outlets, 0), SubsysChannel)
	log.Info("hello")
	assert.Equal(t, "[rpc.channel]: hello\n", buf.String())
}

func TestOutletsFromConfig(t *testing.T) {
	conf, err := config.ParseConfigBytes([]byte(`
global:
  logging:
    - type: stdout
      level: info
      format: logfmt
`))
	require.NoError(t, err)
	outlets, err := OutletsFromConfig(*conf.Global.Logging)
	require.NoError(t, err)
	assert.Len(t, outlets.Get(logger.Debug), 0)
	assert.Len(t, outlets.Get(logger.Info), 1)
	assert.Len(t, outlets.Get(logger.Error), 1)

	conf, err = config.ParseConfigBytes([]byte(`
global:
  logging:
    - {type: stdout, level: info, format: human}
    - {type: stdout, level: debug, format: human}
`))
	require.NoError(t, err)
	_, err = OutletsFromConfig(*conf.Global.Logging)
	assert.Error(t, err)

	conf, err = config.ParseConfigBytes([]byte(`
global:
  logging:
    - {type: stdout, level: info, format: xml}
`))
	require.NoError(t, err)
	_, err = OutletsFromConfig(*conf.Global.Logging)
	assert.Error(t, err)
}
