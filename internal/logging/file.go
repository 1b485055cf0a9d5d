package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

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
	default:
		return "UNKNOWN"
	}
}

var (
	fileLoggerInstance *FileLogger
	fileLoggerOnce     sync.Once
)

// FileLogger writes formatted log lines to ~/.taskboard/taskboard.log and
// mirrors them to stdout so service wrappers can redirect output.
type FileLogger struct {
	file      *os.File
	logger    *log.Logger
	level     Level
	mu        sync.Mutex
	component string
	toFile    bool
}

// Default returns the process-wide logger instance.
func Default() *FileLogger {
	fileLoggerOnce.Do(func() {
		fileLoggerInstance = newFileLogger("", LevelDebug, true)
	})
	return fileLoggerInstance
}

// NewComponentLogger returns the default logger scoped to a component name.
func NewComponentLogger(component string) Logger {
	base := Default()
	return &FileLogger{
		file:      base.file,
		logger:    base.logger,
		level:     base.level,
		component: component,
		toFile:    base.toFile,
	}
}

func newFileLogger(component string, level Level, toFile bool) *FileLogger {
	l := &FileLogger{
		level:     level,
		component: component,
		toFile:    toFile,
	}

	if toFile {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("resolve home directory: %v", err)
			return l
		}

		dir := filepath.Join(home, ".taskboard")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("create log directory: %v", err)
			return l
		}

		logPath := filepath.Join(dir, "taskboard.log")
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("open log file: %v", err)
			return l
		}

		l.file = file
		l.logger = log.New(file, "", 0) // fully self-formatted lines
	}

	return l
}

// SetLevel sets the minimum level emitted by this logger.
func (l *FileLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the underlying log file.
func (l *FileLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *FileLogger) log(level Level, format string, args ...any) {
	if level < l.level || !l.toFile {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	} else {
		file = "???"
		line = 0
	}

	// Format: 2025-09-30 12:34:56 [INFO] [Component] file.go:123 - Message
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	component := l.component
	if component == "" {
		component = "TASKBOARD"
	}

	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("%s [%s] [%s] %s:%d - %s\n",
		timestamp, level.String(), component, file, line, message)

	sanitized := sanitizeLogLine(logLine)

	if l.logger != nil {
		l.logger.Print(sanitized)
	}

	fmt.Print(sanitized)
}

// Debug logs a debug message.
func (l *FileLogger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *FileLogger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *FileLogger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *FileLogger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

const redactedPlaceholder = "[REDACTED]"

var (
	sensitiveKeyValuePattern = regexp.MustCompile(
		`(?i)((?:"|')?(?:api[_-]?key|access[_-]?token|token|secret|password|cookie|credential)(?:"|')?\s*(?:=|:)\s*)(?:"|')?([^"'\s,;]+)((?:"|')?)`,
	)
	standaloneSecretPattern = regexp.MustCompile(
		`(?i)(sk-[A-Za-z0-9]{16,}|ghp_[A-Za-z0-9]{16,}|xox[a-z]-[A-Za-z0-9\-]{10,})`,
	)
)

// sanitizeLogLine scrubs credential-shaped values before a line is persisted.
// Intake payloads carry user filenames and data URLs, which occasionally embed
// tokens copied from other systems.
func sanitizeLogLine(line string) string {
	sanitized := sensitiveKeyValuePattern.ReplaceAllStringFunc(line, func(match string) string {
		submatches := sensitiveKeyValuePattern.FindStringSubmatch(match)
		if len(submatches) != 4 {
			return match
		}
		return submatches[1] + redactedPlaceholder + submatches[3]
	})

	sanitized = standaloneSecretPattern.ReplaceAllString(sanitized, redactedPlaceholder)
	return sanitized
}
