package logger

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// globalLogger is the process-wide logger used by package level helpers
var globalLogger atomic.Pointer[Logger]

func init() {
	l := NewDefault()
	configureFromEnv(l)
	globalLogger.Store(l)
}

// configureFromEnv applies LOG_LEVEL and LOG_FORMAT, ignoring invalid values
func configureFromEnv(l *Logger) {
	if level, err := ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(level)
	}
	if format, err := ParseFormat(os.Getenv("LOG_FORMAT")); err == nil {
		l.SetFormat(format)
	}
}

// ParseLevel parses a log level name, case-insensitively
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat parses "json" or "text"
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	default:
		return JSONFormat, fmt.Errorf("unknown log format %q", format)
	}
}

// Configure sets level and format of the global logger from their names
func Configure(level, format string) error {
	l := GetGlobalLogger()
	if level != "" {
		lv, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lv)
	}
	if format != "" {
		f, err := ParseFormat(format)
		if err != nil {
			return err
		}
		l.SetFormat(f)
	}
	return nil
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger.Load()
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger.Store(logger)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...map[string]interface{}) {
	GetGlobalLogger().log(1, DEBUG, message, first(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...map[string]interface{}) {
	GetGlobalLogger().log(1, INFO, message, first(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...map[string]interface{}) {
	GetGlobalLogger().log(1, WARN, message, first(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...map[string]interface{}) {
	GetGlobalLogger().log(1, ERROR, message, first(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	GetGlobalLogger().log(1, FATAL, message, first(fields), err)
}

// Infof logs a formatted info message using the global logger
func Infof(format string, args ...interface{}) {
	GetGlobalLogger().log(1, INFO, fmt.Sprintf(format, args...), nil, nil)
}
