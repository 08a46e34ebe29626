package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// skipFrames is the number of frames between runtime.Callers and the code calling a Logger method.
const skipFrames = 3

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)
}

// A SlogLogger implements Logger by handing records to a [*log/slog.Logger].
type SlogLogger struct {
	l    *slog.Logger
	skip int
}

// New constructs a SlogLogger writing through l.
// If l is nil, [log/slog.Default] is used.
func New(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}

	return &SlogLogger{l: l}
}

// AddSkip returns a copy of sl that scrolls back i more frames when looking up the call site.
func (sl *SlogLogger) AddSkip(i int) *SlogLogger {
	newl := *sl
	newl.skip += i
	return &newl
}

// Slogger exposes the underlying [*log/slog.Logger].
func (sl *SlogLogger) Slogger() *slog.Logger { return sl.l }

// Debug writes a debug log.
func (sl *SlogLogger) Debug(msg string, ctx *LogContext) {
	sl.log(slog.LevelDebug, msg, ctx)
}

// Error writes an error log.
func (sl *SlogLogger) Error(msg string, ctx *LogContext) {
	sl.log(slog.LevelError, msg, ctx)
}

// Info writes an info log.
func (sl *SlogLogger) Info(msg string, ctx *LogContext) {
	sl.log(slog.LevelInfo, msg, ctx)
}

// Warn writes a warning log.
func (sl *SlogLogger) Warn(msg string, ctx *LogContext) {
	sl.log(slog.LevelWarn, msg, ctx)
}

func (sl *SlogLogger) log(level slog.Level, msg string, ctx *LogContext) {
	bg := context.Background()
	if !sl.l.Enabled(bg, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(skipFrames+sl.skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if ctx != nil {
		r.AddAttrs(slog.Any(logContextKey, ctx))
	}

	_ = sl.l.Handler().Handle(bg, r)
}

// TruncSourceAttr shortens the file path of the [log/slog.SourceKey] attribute
// to its parent directory and file name.
//
// TruncSourceAttr is suited for use in [log/slog.HandlerOptions.ReplaceAttr].
func TruncSourceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}

	short := *src
	short.File = immediateFilepath(src.File)
	a.Value = slog.AnyValue(&short)

	return a
}

// DeleteLevelAttr drops the level attribute from top-level records.
func DeleteLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		return slog.Attr{}
	}

	return a
}

// DeleteMessageAttr drops the message attribute from top-level records.
func DeleteMessageAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.MessageKey {
		return slog.Attr{}
	}

	return a
}

// immediateFilepath keeps the parent directory and file name of path,
// e.g., /home/dev/campus/http/req/params.go => req/params.go
func immediateFilepath(path string) string {
	dir, file := filepath.Split(path)
	return filepath.Join(filepath.Base(dir), file)
}
