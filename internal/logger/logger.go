package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog.Logger and owns the log file, if any.
type Logger struct {
	logger zerolog.Logger
	closer io.Closer
}

// Config holds logger configuration
type Config struct {
	Level    string    // debug, info, warn, error
	File     string    // log file path
	Console  bool      // enable console output
	Pretty   bool      // pretty format for console
	MaxSize  int       // max size in MB before rotation, 0 disables rotation
	MaxAge   int       // max age in days of rotated files
	Compress bool      // compress rotated logs
	Output   io.Writer // console destination, defaults to stderr
}

// New creates a logger and installs it as the global zerolog logger.
// Console output goes to stderr so stdout stays free for command output.
func New(cfg Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}

	var writers []io.Writer

	// Console writer
	if cfg.Console {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		if cfg.Pretty {
			out = zerolog.ConsoleWriter{
				Out:        out,
				TimeFormat: time.RFC3339,
			}
		}
		writers = append(writers, out)
	}

	// File writer
	var closer io.Closer
	if cfg.File != "" {
		fileWriter, err := openFile(cfg)
		if err != nil {
			return nil, err
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Set as global logger
	log.Logger = logger

	return &Logger{
		logger: logger,
		closer: closer,
	}, nil
}

func openFile(cfg Config) (io.WriteCloser, error) {
	if cfg.MaxSize > 0 {
		return NewRotatingWriter(cfg.File, cfg.MaxSize, cfg.MaxAge, cfg.Compress)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.logger.With().Str("component", name).Logger()
}
