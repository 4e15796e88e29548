// Package logger holds the process-wide zerolog logger.
//
// cmd/backend and the console CLI call Init once; everything else receives a
// zerolog.Logger by injection and tags it with Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	// Level is trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool
	// Output defaults to os.Stderr, keeping stdout free for command output.
	Output io.Writer
	// Service, when set, is added to every entry.
	Service string
}

var (
	mu     sync.Mutex
	global *zerolog.Logger
)

// Init builds the process logger. Later calls return the first one unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return *global
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	fields := zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	l := fields.Logger()
	global = &l
	return l
}

// Get returns the logger built by Init and panics if there is none.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		panic("logger: Get() called before Init()")
	}
	return *global
}

// Component derives a child logger tagged with the component name.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

// Reset forgets the logger so the next Init builds a new one. Tests only.
func Reset() {
	mu.Lock()
	global = nil
	mu.Unlock()
}

// ParseLevel is case-insensitive and accepts "warning" for warn. Unknown or
// empty input yields info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	switch lvl, err := zerolog.ParseLevel(s); {
	case err != nil, s == "":
		return zerolog.InfoLevel
	case lvl < zerolog.TraceLevel || lvl > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return lvl
	}
}
