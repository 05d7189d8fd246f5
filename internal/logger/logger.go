// Package logger provides the leveled, field-based logger used by the wren
// pipeline. Messages go to stderr so generated listings on stdout stay clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "silent", "off":
		return LevelSilent, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Logger provides structured logging with configurable levels
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	Enabled(level Level) bool
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true),
}

var fieldKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// sink is shared by a logger and every child created with WithFields, so
// concurrent package pipelines never interleave partial lines.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

type fieldLogger struct {
	level  Level
	sink   *sink
	fields []Field
}

// New creates a logger writing records at or above level to out.
// A nil out writes to stderr.
func New(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &fieldLogger{level: level, sink: &sink{out: out}}
}

// NewSilent creates a logger that outputs nothing
func NewSilent() Logger {
	return New(LevelSilent, io.Discard)
}

func (l *fieldLogger) Enabled(level Level) bool {
	return level >= l.level && l.level != LevelSilent
}

// WithFields returns a child logger that prefixes every record with fields.
func (l *fieldLogger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &fieldLogger{level: l.level, sink: l.sink, fields: merged}
}

func (l *fieldLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *fieldLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *fieldLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *fieldLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *fieldLogger) log(level Level, msg string, fields []Field) {
	if !l.Enabled(level) {
		return
	}

	var b strings.Builder
	b.WriteString(levelStyles[level].Render(fmt.Sprintf("%-5s", level.String())))
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, group := range [][]Field{l.fields, fields} {
		for _, f := range group {
			b.WriteByte(' ')
			b.WriteString(fieldKeyStyle.Render(f.Key + "="))
			b.WriteString(formatValue(f.Value))
		}
	}
	b.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.out, b.String())
}

// formatValue quotes strings containing spaces so records stay parseable.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
