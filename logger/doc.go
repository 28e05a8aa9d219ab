/*
Package logger provides logging functionality to a compass app by defining the required behavior in [Logger]
and providing an implementation of it with [CompassLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[CompassLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*CompassLogger.Warn], [*CompassLogger.Error], and [*CompassLogger.Fatal] produce messages.

Log messages emitted by [CompassLogger] are composed of a few parts:

  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2022/04/28 15:55:21 [ERROR] auth/client.go:143 'error refreshing token' log_context: {"error":"invalid_grant"}

The log context is a JSON-encoded [LogContext].
Token values found in a LogContext are masked.

# SentryLogger

When SENTRY_DSN is set, [NewLogger] returns a [SentryLogger],
which additionally reports errors in a LogContext to Sentry.
*/
package logger
