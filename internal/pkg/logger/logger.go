package logger

// Logger is the logging contract used across the service. It mirrors the
// zap sugared 'w' style: a message plus loosely typed key-value pairs.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Fatalw(msg string, keysAndValues ...any)
	Sync() error
}
