package logger

import (
	"log/slog"

	"github.com/fatih/color"
)

var levelColors = map[slog.Level]func(string, ...any) string{
	slog.LevelDebug: color.WhiteString,
	slog.LevelInfo:  color.BlueString,
	slog.LevelWarn:  color.YellowString,
	slog.LevelError: color.RedString,
}

// ColorizeLevel paints the level attribute with a color matching its severity.
//
// ColorizeLevel is meant for human-readable output during development.
func ColorizeLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) != 0 || a.Key != slog.LevelKey {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	colorizer, ok := levelColors[lvl]
	if !ok {
		colorizer = color.MagentaString
	}

	return slog.String(a.Key, colorizer("%s", lvl.String()))
}
