package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a string to a Level
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level  // Minimum log level
	FilePath   string // Path to log file
	MaxSize    int    // Max size in megabytes before rotation (default: 10)
	MaxAge     int    // Max age of backups in days (default: 7)
	MaxBackups int    // Max number of backup files (default: 5)
	Console    bool   // Enable console logging
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := filepath.Join(home, ".journal", "logs", "journal.log")

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // Disabled by default to not interfere with TUI
	}
}

// Logger is the main logger instance
type Logger struct {
	config Config
	file   *lumberjack.Logger
	mu     *sync.Mutex
	fields []Field
	zl     zerolog.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init initializes the global logger
func Init(config Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(config)
	})
	return err
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	l := &Logger{
		config: config,
		mu:     &sync.Mutex{},
		fields: []Field{},
	}

	if config.FilePath != "" {
		logDir := filepath.Dir(config.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		// lumberjack rotates on write once the file would pass MaxSize
		l.file = &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSize,
			MaxAge:     config.MaxAge,
			MaxBackups: config.MaxBackups,
		}
	}

	l.zl = l.build()
	return l, nil
}

// NewWriter creates a logger that writes JSON lines to w
func NewWriter(w io.Writer, level Level) *Logger {
	l := &Logger{
		config: Config{Level: level},
		mu:     &sync.Mutex{},
		fields: []Field{},
	}
	l.zl = zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return l
}

// build assembles the zerolog logger over the current outputs
func (l *Logger) build() zerolog.Logger {
	var writers []io.Writer
	if l.file != nil {
		writers = append(writers, l.file)
	}
	if l.config.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05.000"})
	}
	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(l.config.Level.zerolog()).
		With().Timestamp().Logger()
}

// log writes a log entry
func (l *Logger) log(level Level, msg string, fields []Field) {
	if level < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.zl.WithLevel(level.zerolog())

	_, file, line, ok := runtime.Caller(2)
	if ok {
		e = e.Str("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}

	for _, f := range l.fields {
		e = addField(e, f)
	}
	for _, f := range fields {
		e = addField(e, f)
	}
	e.Msg(msg)
}

func addField(e *zerolog.Event, f Field) *zerolog.Event {
	switch v := f.Value.(type) {
	case error:
		return e.AnErr(f.Key, v)
	case string:
		return e.Str(f.Key, v)
	case time.Duration:
		return e.Str(f.Key, v.String())
	default:
		return e.Interface(f.Key, v)
	}
}

// WithFields creates a new logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	preset := make([]Field, 0, len(l.fields)+len(fields))
	preset = append(preset, l.fields...)
	preset = append(preset, fields...)
	return &Logger{
		config: l.config,
		file:   l.file,
		mu:     l.mu,
		fields: preset,
		zl:     l.zl,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Global logger functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Debug(msg, fields...)
	}
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Info(msg, fields...)
	}
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Warn(msg, fields...)
	}
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.Error(msg, fields...)
	}
}

// WithFields creates a new logger with preset fields using the global logger.
// Without a global logger the returned logger discards everything.
func WithFields(fields ...Field) *Logger {
	if globalLogger != nil {
		return globalLogger.WithFields(fields...)
	}
	return NewWriter(io.Discard, ERROR).WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
