/*
Package logger provides logging functionality to a campus app by defining the required behavior in [Logger]
and providing an implementation of it with [SlogLogger].

# Overview

The Logger interface outputs messages at four levels of importance: debug, info, warn and error.
[SlogLogger] hands each message to a [*log/slog.Logger], so the level a message
must reach to be emitted is decided by the [log/slog.Handler] it was constructed with.

Records carry the call site of the code that called the [Logger] method,
not the call site inside this package.

# LogContext

A [*LogContext] is attached to a record under the "log_context" key.
It groups the data, error and request details inessential to the message proper,
but that provide a fuller picture of the application state at the time of logging.
Sensitive form values, such as passwords, are masked.

# Handler helpers

[ColorizeLevel], [TruncSourceAttr], [DeleteLevelAttr] and [DeleteMessageAttr]
are meant for [log/slog.HandlerOptions.ReplaceAttr].

# SentryLogger

[SentryLogger] wraps another [Logger] and additionally reports
warnings and errors whose [LogContext] carries an error to Sentry.
*/
package logger
