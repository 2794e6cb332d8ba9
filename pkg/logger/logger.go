package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the shared instance. Usable before Init with defaults.
	Logger = logrus.New()
	mu     sync.Mutex
)

// Config controls level, format and optional rotating file output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // empty logs to stderr only
	MaxSize    int    // megabytes per file before rotation
	MaxBackups int    // rotated files to keep
	MaxAge     int    // days to keep rotated files
	Compress   bool
}

// Init configures the shared logger. Safe to call more than once.
func Init(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	})

	if config.OutputFile == "" {
		Logger.SetOutput(os.Stderr)
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	fileOut := &lumberjack.Logger{
		Filename:   config.OutputFile,
		MaxSize:    orDefault(config.MaxSize, 50),
		MaxBackups: orDefault(config.MaxBackups, 5),
		MaxAge:     orDefault(config.MaxAge, 14),
		Compress:   config.Compress,
	}
	Logger.SetOutput(io.MultiWriter(os.Stderr, fileOut))
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithField and friends mirror the logrus entry helpers on the shared
// instance so callers need not import logrus directly.
func WithField(key string, value any) *logrus.Entry { return Logger.WithField(key, value) }

func WithFields(fields logrus.Fields) *logrus.Entry { return Logger.WithFields(fields) }

func WithError(err error) *logrus.Entry { return Logger.WithError(err) }

func Debugf(format string, args ...any) { Logger.Debugf(format, args...) }

func Infof(format string, args ...any) { Logger.Infof(format, args...) }

func Warnf(format string, args ...any) { Logger.Warnf(format, args...) }

func Errorf(format string, args ...any) { Logger.Errorf(format, args...) }
