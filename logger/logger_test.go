package logger_test

import (
	"bytes"
	"errors"
	"log"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass/logger"
)

var lineRegexp = regexp.MustCompile(`^.*\[([A-Z]+)\] ([\w/\-.]+\.go:\d+|[\w/\-.]+) '(.*)'`)

func TestCompassLoggerLevels(t *testing.T) {
	for _, tc := range []struct {
		name     string
		level    logger.LogLevel
		expected []string
	}{
		{"Debug", logger.LogLevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"Info", logger.LogLevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{"Warn", logger.LogLevelWarn, []string{"WARN", "ERROR"}},
		{"Error", logger.LogLevelError, []string{"ERROR"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			b := new(bytes.Buffer)
			l := logger.NewLogger(logger.WithLogger(log.New(b, "", 0)), logger.WithLevel(tc.level))

			// Act
			l.Debug("debug", nil)
			l.Info("info", nil)
			l.Warn("warn", nil)
			l.Error("error", nil)

			// Assert
			var actual []string
			for _, line := range bytes.Split(bytes.TrimSpace(b.Bytes()), []byte("\n")) {
				match := lineRegexp.FindSubmatch(line)
				require.NotNil(t, match, string(line))
				actual = append(actual, string(match[1]))
			}
			require.Equal(t, tc.expected, actual)
			require.Equal(t, tc.level, l.LogLevel())
		})
	}
}

func TestCompassLoggerCallSite(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.NewLogger(logger.WithLogger(log.New(b, "", 0)))

	// Act
	l.Info("such fun!", nil)

	// Assert
	match := lineRegexp.FindSubmatch(b.Bytes())
	require.NotNil(t, match)
	require.Contains(t, string(match[2]), "logger_test.go")
	require.Equal(t, "such fun!", string(match[3]))

	// Arrange
	b.Reset()

	// Act
	l.Warn("from elsewhere", &logger.LogContext{Caller: "worker/refresh.go:12", Error: errors.New("oops")})

	// Assert
	require.Contains(t, b.String(), "worker/refresh.go:12 'from elsewhere'")
	require.Contains(t, b.String(), `log_context: {"error":"oops"}`)
}

func TestNewLogLevel(t *testing.T) {
	require.Equal(t, logger.LogLevelDebug, logger.NewLogLevel("DEBUG"))
	require.Equal(t, logger.LogLevelFatal, logger.NewLogLevel("FATAL"))
	require.Equal(t, logger.LogLevelUnk, logger.NewLogLevel("debug"))
	require.Equal(t, "[WARN]", logger.LogLevelWarn.String())
}
