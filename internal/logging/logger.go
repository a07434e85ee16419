// Package logging adapts charmbracelet/log to the doapi.Logger interface.
package logging

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

// Logger writes structured, leveled log lines.
type Logger struct {
	logger *log.Logger
}

// New creates a logger writing to w. Debug lines are only written when
// verbose is set.
func New(w io.Writer, verbose bool) *Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}

	return &Logger{
		logger: log.NewWithOptions(w, log.Options{
			Level:           level,
			Prefix:          "dopanel",
			ReportTimestamp: verbose,
		}),
	}
}

// Debug implements doapi.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, keyvals(fields)...)
}

// Info implements doapi.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, keyvals(fields)...)
}

// Warn implements doapi.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, keyvals(fields)...)
}

// Error implements doapi.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, keyvals(fields)...)
}

// keyvals flattens fields in key order so lines are stable.
func keyvals(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		out = append(out, key, fields[key])
	}

	return out
}
