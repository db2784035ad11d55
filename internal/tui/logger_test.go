package tui

import (
	"io"
	"log/slog"

	"github.com/jask/energylog/internal/widget"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parse(pattern string) widget.FormatSpec { return widget.ParseDatePattern(pattern) }
