package logger

// NewNullLogger returns a Logger without outlets. Entries are dropped
// before any outlet goroutine is started.
func NewNullLogger() Logger {
	return NewLogger(NewOutlets(), 0)
}
