// Package debug is tooey's opt-in diagnostic log. Set TOOEY_DEBUG to any
// value, or pass --log-file, to turn it on:
//
//	TOOEY_DEBUG=1 tooey --file page.json --log-file /tmp/tooey.log
//
// Lines go to stderr unless SetOutput redirects them. The TUI owns the
// terminal, so interactive runs should always log to a file. While off,
// every call returns immediately.
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	logger *log.Logger // nil while disabled
	out    io.Writer = os.Stderr
)

func init() {
	if os.Getenv("TOOEY_DEBUG") != "" {
		SetEnabled(true)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[tooey] ", log.Ltime|log.Lmicroseconds)
}

// SetEnabled turns logging on or off.
func SetEnabled(on bool) {
	mu.Lock()
	defer mu.Unlock()
	if !on {
		logger = nil
		return
	}
	if logger == nil {
		logger = newLogger(out)
	}
}

// SetOutput sends log lines to w; nil means stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
	if logger != nil {
		logger = newLogger(out)
	}
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func Log(format string, args ...any) {
	if l := current(); l != nil {
		l.Printf(format, args...)
	}
}

// Span logs the start of name and returns a func logging its end with the
// elapsed time.
//
//	defer debug.Span("tui")()
func Span(name string) func() {
	l := current()
	if l == nil {
		return func() {}
	}
	l.Printf("%s: start", name)
	start := time.Now()
	return func() { l.Printf("%s: done in %v", name, time.Since(start)) }
}
