// Package tracelog is a small leveled logger wrapping the standard
// library's log.Logger: a package-level Init, level constants, and
// Debugf/Infof/Warnf/Errorf functions that fan out to console (and
// optionally a log file).
package tracelog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level controls which messages reach the console. File output, when a
// log file is configured, always receives every message regardless of
// level.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	mu       sync.Mutex
	console  *log.Logger
	file     *log.Logger
	logFile  *os.File
	minLevel = Info
)

// Init wires the package logger to the given console writer and, if
// logFilePath is non-empty, opens (creating if needed) a log file that
// receives every message regardless of minLevel. Calling Init again
// replaces the previous configuration; Close releases any open file.
func Init(out io.Writer, logFilePath string, level Level) error {
	mu.Lock()
	defer mu.Unlock()

	minLevel = level
	console = log.New(out, "", log.LstdFlags)

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		file = nil
	}

	if logFilePath == "" {
		return nil
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("tracelog: open log file %q: %w", logFilePath, err)
	}
	logFile = f
	file = log.New(f, "", log.LstdFlags)
	return nil
}

// Close releases the open log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		file = nil
	}
}

func logAt(level Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	msg := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))

	if console == nil {
		fmt.Println(msg)
		return
	}
	if level >= minLevel {
		console.Println(msg)
	}
	if file != nil {
		file.Println(msg)
	}
}

func Debugf(format string, args ...interface{}) { logAt(Debug, format, args...) }
func Infof(format string, args ...interface{})  { logAt(Info, format, args...) }
func Warnf(format string, args ...interface{})  { logAt(Warn, format, args...) }
func Errorf(format string, args ...interface{}) { logAt(Error, format, args...) }
