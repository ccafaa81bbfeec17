package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

var (
	infoColor  = color.New(color.FgGreen).SprintFunc()
	debugColor = color.New(color.FgCyan).SprintFunc()
	traceColor = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// SimpleLogSink implements the logr.LogSink interface for human-readable
// output with optional colored level labels.
type SimpleLogSink struct {
	writer       io.Writer
	minVerbosity int
	name         string
	keyValues    []interface{}
	mutex        sync.Mutex
	useColor     bool
}

// NewSimpleLogSink creates a new SimpleLogSink. If writer is nil, it defaults
// to os.Stderr. minVerbosity sets the maximum verbosity level that will be
// emitted.
func NewSimpleLogSink(writer io.Writer, minVerbosity int, useColor bool) *SimpleLogSink {
	if writer == nil {
		writer = os.Stderr
	}
	return &SimpleLogSink{
		writer:       writer,
		minVerbosity: minVerbosity,
		useColor:     useColor,
	}
}

// Init initializes the sink with runtime information.
func (s *SimpleLogSink) Init(info logr.RuntimeInfo) {}

// Enabled determines if the sink is enabled for the given verbosity level.
func (s *SimpleLogSink) Enabled(level int) bool {
	return level <= s.minVerbosity
}

// Info logs a non-error message with key-value pairs.
func (s *SimpleLogSink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.write(s.label(level), msg, keysAndValues...)
}

// Error logs an error message with key-value pairs.
func (s *SimpleLogSink) Error(err error, msg string, keysAndValues ...interface{}) {
	kv := append([]interface{}{"error", err}, keysAndValues...)
	label := "ERROR"
	if s.useColor {
		label = errorColor(label)
	}
	s.write(label, msg, kv...)
}

// WithValues returns a sink with additional key-value pairs attached.
func (s *SimpleLogSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	clone := s.clone()
	clone.keyValues = append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	return clone
}

// WithName returns a sink with a name segment appended.
func (s *SimpleLogSink) WithName(name string) logr.LogSink {
	clone := s.clone()
	if s.name != "" {
		clone.name = s.name + "." + name
	} else {
		clone.name = name
	}
	return clone
}

func (s *SimpleLogSink) clone() *SimpleLogSink {
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    s.keyValues,
		useColor:     s.useColor,
	}
}

func (s *SimpleLogSink) label(level int) string {
	switch {
	case level >= LEVEL_TRACE:
		if s.useColor {
			return traceColor("TRACE")
		}
		return "TRACE"
	case level == LEVEL_DEBUG:
		if s.useColor {
			return debugColor("DEBUG")
		}
		return "DEBUG"
	default:
		if s.useColor {
			return infoColor("INFO")
		}
		return "INFO"
	}
}

func (s *SimpleLogSink) write(label string, msg string, keysAndValues ...interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", label))
	if s.name != "" {
		sb.WriteString(fmt.Sprintf("%s: ", s.name))
	}
	sb.WriteString(msg)

	kv := append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	for i := 0; i+1 < len(kv); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", kv[i], kv[i+1]))
	}
	fmt.Fprintln(s.writer, sb.String())
}

// NewSimpleLogger returns a logr.Logger backed by a SimpleLogSink.
func NewSimpleLogger(writer io.Writer, minVerbosity int, useColor bool) logr.Logger {
	return logr.New(NewSimpleLogSink(writer, minVerbosity, useColor))
}
