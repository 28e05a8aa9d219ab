package logger

import "log"

// A LoggerOptFn is a functional option configuring a CompassLogger when constructing a new one.
type LoggerOptFn func(*CompassLogger)

// WithEnv sets the environment CompassLogger is operating in.
func WithEnv(env string) func(*CompassLogger) {
	return func(l *CompassLogger) {
		l.env = env
	}
}

// WithLevel sets the log level CompassLogger uses.
func WithLevel(level LogLevel) func(*CompassLogger) {
	return func(l *CompassLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger CompassLogger uses.
func WithLogger(log *log.Logger) func(*CompassLogger) {
	return func(l *CompassLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*CompassLogger) {
	return func(l *CompassLogger) {
		l.skip = skip
	}
}
