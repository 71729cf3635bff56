package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level represents logging severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var currentLevel = LevelWarn

func init() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
}

// SetVerbosity maps a count of -v flags (0-4) to a level.
func SetVerbosity(count int) {
	switch {
	case count <= 0:
		currentLevel = LevelWarn
	case count == 1:
		currentLevel = LevelInfo
	case count == 2:
		currentLevel = LevelDebug
	default:
		currentLevel = LevelTrace
	}
}

// SetLevel sets the level by name. Unknown names leave the level unchanged.
func SetLevel(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	currentLevel = l
	return nil
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	return currentLevel
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLevel returns the Level for s.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning", "":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return currentLevel, fmt.Errorf("logging: unknown level %q", s)
	}
}

func logf(l Level, prefix, format string, args ...any) {
	if l > currentLevel {
		return
	}
	log.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, "ERR", format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, "WARN", format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, "INFO", format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, "DBG", format, args...)
}

func Tracef(format string, args ...any) {
	logf(LevelTrace, "TRC", format, args...)
}
