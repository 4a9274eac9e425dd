package logger

// NoopLogger discards everything. For tests.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() Logger {
	return &NoopLogger{}
}

var _ Logger = (*NoopLogger)(nil)

func (l *NoopLogger) Debugw(msg string, keysAndValues ...any) {}
func (l *NoopLogger) Infow(msg string, keysAndValues ...any)  {}
func (l *NoopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (l *NoopLogger) Errorw(msg string, keysAndValues ...any) {}
func (l *NoopLogger) Fatalw(msg string, keysAndValues ...any) {}
func (l *NoopLogger) Sync() error                             { return nil }
