package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variable to configure log file path.
const envLogPath = "BLOG_LOG"

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

// InitFromEnv initializes the logger using BLOG_LOG or a default path.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "blog.log")
		} else {
			path = "./blog.log"
		}
	}
	return Init(path)
}

// Init initializes the logger to write JSON lines to the provided file path.
// The special paths "stdout" and "stderr" are passed through to zap.
// It creates parent directories if needed.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		return nil
	}
	if path != "stdout" && path != "stderr" {
		if err := ensureParentDir(path); err != nil {
			return err
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("BLOG_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	base = l
	sugar = l.Sugar()
	return nil
}

// Set replaces the process logger. Passing nil resets it so the next
// call falls back to InitFromEnv.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	if l == nil {
		sugar = nil
		return
	}
	sugar = l.Sugar()
}

// Close flushes buffered log entries.
func Close() error {
	mu.RLock()
	defer mu.RUnlock()
	if base == nil {
		return nil
	}
	_ = base.Sync()
	return nil
}

// L returns the structured logger.
func L() *zap.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()
	if l == nil {
		if err := InitFromEnv(); err != nil {
			return zap.NewNop()
		}
		mu.RLock()
		l = base
		mu.RUnlock()
	}
	return l
}

// Printf logs a formatted message at info level.
func Printf(format string, args ...any) { s().Infof(format, args...) }

// Debugf logs debug messages.
func Debugf(format string, args ...any) { s().Debugf(format, args...) }

// Infof logs informational messages.
func Infof(format string, args ...any) { s().Infof(format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { s().Warnf(format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { s().Errorf(format, args...) }

func s() *zap.SugaredLogger {
	mu.RLock()
	sl := sugar
	mu.RUnlock()
	if sl != nil {
		return sl
	}
	return L().Sugar()
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
