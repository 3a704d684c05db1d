// Package logging sets up the process-wide hclog logger. Verbosity comes
// from the STACKSYNTH_LOG environment variable; unset means only errors
// show.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// envLog is the environment variable that controls the log level.
const envLog = "STACKSYNTH_LOG"

var (
	logger     hclog.Logger
	loggerOnce sync.Once
)

// Logger returns the global logger, creating it on first use.
func Logger() hclog.Logger {
	loggerOnce.Do(func() {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:       "stacksynth",
			Level:      globalLogLevel(),
			Output:     logOutput(),
			JSONFormat: strings.ToUpper(os.Getenv(envLog)) == "JSON",
		})
	})
	return logger
}

func globalLogLevel() hclog.Level {
	envLevel := strings.ToUpper(os.Getenv(envLog))
	if envLevel == "" {
		return hclog.Error
	}
	if envLevel == "JSON" {
		return hclog.Trace
	}
	if level := hclog.LevelFromString(envLevel); level != hclog.NoLevel {
		return level
	}
	return hclog.Trace
}

func logOutput() io.Writer {
	return os.Stderr
}
