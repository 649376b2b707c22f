// Package logger provides a configurable logger shared by ministark
// components.
//
// The root logger uses github.com/rs/zerolog with a console writer and is
// silenced inside test binaries.
package logger

import (
	"flag"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// setup runs on first use instead of package init, so the test detection
// below sees the flags the testing package registers in the test binary's
// main. Sniffing os.Args[0] for a ".test" suffix misses binaries built with
// `go test -c -o`.
func setup() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if flag.Lookup("test.v") != nil {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	once.Do(setup)
	logger = logger.Output(w)
}

// Set allows a caller to override the global logger.
func Set(l zerolog.Logger) {
	once.Do(setup)
	logger = l
}

// Disable disables logging.
func Disable() {
	once.Do(setup)
	logger = zerolog.Nop()
}

// Logger returns a sublogger for a component.
func Logger() zerolog.Logger {
	once.Do(setup)
	return logger
}
