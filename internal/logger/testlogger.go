package logger

import (
	"testing"
)

type testLogger struct {
	Logger
}

type testingLoggerOutlet struct {
	t *testing.T
}

func (o testingLoggerOutlet) WriteEntry(entry Entry) error {
	o.t.Logf("%s %s %v", entry.Level.Short(), entry.Message, entry.Fields)
	return nil
}

var _ Logger = testLogger{}

// NewTestLogger returns a Logger that writes all levels to t.Logf.
func NewTestLogger(t *testing.T) Logger {
	outlets := NewOutlets()
	outlets.Add(&testingLoggerOutlet{t}, Debug)
	return &testLogger{
		Logger: NewLogger(outlets, 0),
	}
}
