package upload

import (
	"time"

	"github.com/myschool/campus/logger"
)

// A ServiceOptFn configures a Service when constructing it.
type ServiceOptFn func(*Service)

// WithLogger sets the Logger a Service writes through.
func WithLogger(l logger.Logger) ServiceOptFn {
	return func(s *Service) { s.l = l }
}

// WithClock sets the function stamping saved file names.
func WithClock(now func() time.Time) ServiceOptFn {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
