package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. It discards output until Init or
// SetOutput is called.
var Logger = zerolog.New(io.Discard)

var (
	mu      sync.Mutex
	file    *os.File
	pending *bytes.Buffer
)

// Hold buffers log lines in memory until Init names the log file.
func Hold() {
	mu.Lock()
	defer mu.Unlock()

	pending = &bytes.Buffer{}
	SetOutput(pending)
}

// Init opens the append-only log file at path, writes any held lines to it
// and routes all log lines there. The file is opened on the first call and
// reused afterwards.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if file == nil {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		file = logFile
	}

	if pending != nil {
		if _, err := file.Write(pending.Bytes()); err != nil {
			return fmt.Errorf("failed to write log file %s: %w", path, err)
		}
		pending = nil
	}

	SetOutput(file)
	return nil
}

// SetOutput replaces the log destination.
func SetOutput(w io.Writer) {
	Logger = zerolog.New(newLineWriter(w)).Level(zerolog.InfoLevel)
}

func Info(msg string, args ...any) {
	Logger.Info().Fields(args).Msg(msg)
}

func Error(msg string, args ...any) {
	Logger.Error().Fields(args).Msg(msg)
}

func Debug(msg string, args ...any) {
	Logger.Debug().Fields(args).Msg(msg)
}

func Warn(msg string, args ...any) {
	Logger.Warn().Fields(args).Msg(msg)
}
