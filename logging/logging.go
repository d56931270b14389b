package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New builds a file-backed logger. The TUI owns the terminal, so there is
// no console output; an empty file path yields a no-op logger. The returned
// closer flushes and closes the log file.
func New(level, file string) (zerolog.Logger, func(), error) {
	if file == "" {
		return zerolog.Nop(), func() {}, nil
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).With().Timestamp().Logger().Level(parsed)
	return logger, func() { f.Close() }, nil
}
