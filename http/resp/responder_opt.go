package resp

import (
	"time"

	"github.com/myschool/campus/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, one writing through [log/slog.Default] is configured.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithClock sets the function stamping pubdate.
func WithClock(now func() time.Time) ResponderOptFn {
	return func(d *Responder) {
		if now != nil {
			d.now = now
		}
	}
}
