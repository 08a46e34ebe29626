package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"

	"github.com/myschool/campus"
)

const (
	callerTmpl    = "%s:%d"
	logContextKey = "log_context"
)

var _ slog.LogValuer = &LogContext{}

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	//
	// Caller helps goroutines identify the callers of the process that spawned it.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request
}

// LogValue groups the populated fields of lc, skipping zero values.
//
// Form values under sensitive keys are masked.
//
// LogValue implements [log/slog.LogValuer].
func (lc *LogContext) LogValue() slog.Value {
	if lc == nil {
		return slog.GroupValue()
	}

	attrs := make([]slog.Attr, 0, 4)
	if lc.Caller != "" {
		attrs = append(attrs, slog.String("caller", lc.Caller))
	}

	if len(lc.Data) > 0 {
		attrs = append(attrs, slog.Any("data", lc.Data))
	}

	if lc.Error != nil {
		attrs = append(attrs, slog.String("error", lc.Error.Error()))
		var cerr *campus.Error
		if errors.As(lc.Error, &cerr) {
			attrs = append(attrs, slog.String("stack", cerr.Stack()))
		}
	}

	if lc.Request != nil {
		rattrs := []slog.Attr{
			slog.String("method", lc.Request.Method),
			slog.String("url", lc.Request.URL.String()),
		}

		if lc.Request.Form != nil {
			form := make(url.Values, len(lc.Request.Form))
			for k, v := range lc.Request.Form {
				form[k] = append([]string(nil), v...)
			}
			campus.MaskAll(form)
			rattrs = append(rattrs, slog.Any("form", form))
		}

		attrs = append(attrs, slog.Attr{Key: "request", Value: slog.GroupValue(rattrs...)})
	}

	return slog.GroupValue(attrs...)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
//
//	myFunc() { 		<- returns this caller
//		func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}
