package server

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the observability sink the server reports to
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// ZeroLogger is the console logger used by the server binary
type ZeroLogger struct {
	logger zerolog.Logger
}

// NewZeroLogger creates a human-readable logger writing to out. Unknown
// levels fall back to info, with a warning on out.
func NewZeroLogger(out io.Writer, level string) *ZeroLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	unknown := err != nil || lvl == zerolog.NoLevel
	if unknown {
		lvl = zerolog.InfoLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05.000",
		NoColor:    true,
	}

	l := &ZeroLogger{
		logger: zerolog.New(cw).Level(lvl).With().Timestamp().Logger(),
	}
	if unknown {
		l.Warn("unknown log level, defaulting to info", Field{"level", level})
	}
	return l
}

// NewDefaultLogger logs info and above to stdout
func NewDefaultLogger() *ZeroLogger {
	return NewZeroLogger(os.Stdout, "info")
}

func (l *ZeroLogger) Debug(msg string, fields ...Field) {
	l.log(l.logger.Debug(), msg, fields)
}

func (l *ZeroLogger) Info(msg string, fields ...Field) {
	l.log(l.logger.Info(), msg, fields)
}

func (l *ZeroLogger) Error(msg string, fields ...Field) {
	l.log(l.logger.Error(), msg, fields)
}

func (l *ZeroLogger) Warn(msg string, fields ...Field) {
	l.log(l.logger.Warn(), msg, fields)
}

func (l *ZeroLogger) log(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := sanitizeValue(f.Value).(type) {
		case error:
			e = e.AnErr(f.Key, v)
		case string:
			e = e.Str(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

// Request lines come straight off the wire; keep them bounded in the log.
func sanitizeValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		if len(s) > 100 {
			return s[:100] + "...[truncated]"
		}
	}
	return v
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
