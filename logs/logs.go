// Package logs builds the process logger from the log section of the config.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/havrydotdev/treelox/config"
)

// Logger writes text to the terminal and, if cfg.File is set, JSON to that
// file. Both handlers share Level, so raising it affects both.
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar

	file *os.File
}

func New(cfg config.Log, terminal io.Writer) (*Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}

	l := &Logger{Level: new(slog.LevelVar)}
	l.Level.Set(level)

	handlers := []slog.Handler{
		slog.NewTextHandler(terminal, &slog.HandlerOptions{Level: l.Level}),
	}

	if cfg.File != "" {
		l.file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logs: open %s: %w", cfg.File, err)
		}

		handlers = append(handlers, slog.NewJSONHandler(l.file, &slog.HandlerOptions{Level: l.Level}))
	}

	l.Logger = slog.New(slogmulti.Fanout(handlers...))

	return l, nil
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	return l.file.Close()
}
