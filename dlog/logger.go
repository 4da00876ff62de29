package dlog

import (
	"io"
	"log"
	"os"
)

type Logger struct {
	*log.Logger
}

type LoggerOption struct {
	f func(*Logger)
}

// NewLogger wraps the standard log package and adds Debug functions for
// development output. Debug output is compiled in with `-tags debug` and is
// a no-op otherwise.
func NewLogger(options ...LoggerOption) *Logger {
	l := &Logger{log.New(os.Stderr, "", log.LstdFlags)}

	for _, option := range options {
		option.f(l)
	}

	return l
}

// Child returns a logger sharing the output and flags of l with tag appended
// to the prefix.
func (l *Logger) Child(tag string) *Logger {
	return &Logger{log.New(l.Writer(), l.Prefix()+tag+" ", l.Flags())}
}

func LoggerSetOutput(w io.Writer) LoggerOption {
	return LoggerOption{
		func(l *Logger) {
			l.SetOutput(w)
		},
	}
}

func LoggerSetPrefix(p string) LoggerOption {
	return LoggerOption{
		func(l *Logger) {
			l.SetPrefix(p)
		},
	}
}

func LoggerSetFlags(flag int) LoggerOption {
	return LoggerOption{
		func(l *Logger) {
			l.SetFlags(flag)
		},
	}
}
