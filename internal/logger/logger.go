package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel orders messages by severity
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// LogFormat selects JSON or text output
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
)

// Fields carries structured context for a log line
type Fields map[string]interface{}

// LogEntry is one emitted record
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// sink is the output shared by a logger and every logger derived from it
type sink struct {
	mu     sync.Mutex
	level  LogLevel
	format LogFormat
	out    io.Writer
}

// Logger writes structured log lines for one component
type Logger struct {
	sink      *sink
	component string
	fields    Fields
}

// Config configures a root logger
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
}

// New creates a root logger writing to config.Output
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	return &Logger{
		sink: &sink{
			level:  config.Level,
			format: config.Format,
			out:    config.Output,
		},
		component: config.Component,
	}
}

// NewDefault logs INFO and above as JSON to stderr
func NewDefault() *Logger {
	return New(Config{
		Level:  INFO,
		Format: JSONFormat,
		Output: os.Stderr,
	})
}

// WithComponent returns a logger for another component sharing the same output and level
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		sink:      l.sink,
		component: component,
		fields:    l.fields,
	}
}

// With returns a logger that adds fields to every line
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		sink:      l.sink,
		component: l.component,
		fields:    merged,
	}
}

// SetLevel changes the threshold of every logger sharing the sink
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// SetFormat switches the output format of every logger sharing the sink
func (l *Logger) SetFormat(format LogFormat) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.format = format
}

// Enabled reports whether lines at level are written
func (l *Logger) Enabled(level LogLevel) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return level >= l.sink.level
}

// log is the internal logging method; skip is the number of frames above it to report as caller
func (l *Logger) log(skip int, level LogLevel, message string, fields map[string]interface{}, err error) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Component: l.component,
		Caller:    caller(skip + 1),
		Fields:    l.mergeFields(fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	l.sink.mu.Lock()
	var line string
	if l.sink.format == TextFormat {
		line = formatText(entry)
	} else {
		b, _ := json.Marshal(entry)
		line = string(b) + "\n"
	}
	io.WriteString(l.sink.out, line)
	l.sink.mu.Unlock()

	// FATAL terminates after the line is written
	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	if len(l.fields) == 0 {
		return fields
	}
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

// caller returns "file.go:line" for the frame skip levels above it
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// formatText renders one line: time level [component] message fields
func formatText(entry LogEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", entry.Timestamp, entry.Level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	// sorted so lines are stable
	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		fmt.Fprintf(&b, " fields={%s}", strings.Join(parts, ", "))
	}

	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%s", entry.Error)
	}
	if entry.Caller != "" {
		fmt.Fprintf(&b, " (%s)", entry.Caller)
	}

	b.WriteString("\n")
	return b.String()
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(1, DEBUG, message, first(fields), nil)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(1, INFO, message, first(fields), nil)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(1, WARN, message, first(fields), nil)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.log(1, ERROR, message, first(fields), err)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.log(1, FATAL, message, first(fields), err)
}

// Debugf formats and logs at DEBUG
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(1, DEBUG, fmt.Sprintf(format, args...), nil, nil)
}

// Infof formats and logs at INFO
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(1, INFO, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf formats and logs at WARN
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(1, WARN, fmt.Sprintf(format, args...), nil, nil)
}

// Errorf formats and logs at ERROR
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(1, ERROR, fmt.Sprintf(format, args...), nil, nil)
}
