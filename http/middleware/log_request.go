package middleware

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/myschool/campus"
)

// A LogRequestRecord is the access log entry LogRequest writes for each request.
type LogRequestRecord struct {
	BodySize       int64  `json:"bodySize"`
	Duration       int64  `json:"duration"`
	Host           string `json:"host"`
	ID             string `json:"id"`
	IPAddr         string `json:"ipAddr"`
	Method         string `json:"method"`
	Path           string `json:"path"`
	Protocol       string `json:"protocol"`
	Referrer       string `json:"referrer"`
	ReqContentType string `json:"reqContentType"`
	Scheme         string `json:"scheme"`
	Status         int    `json:"status"`
	URI            string `json:"uri"`
	UserAgent      string `json:"userAgent"`
}

// LogValue implements [log/slog.LogValuer].
// Logged under an empty key, the fields are inlined into the record.
func (rec LogRequestRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("bodySize", rec.BodySize),
		slog.Int64("duration", rec.Duration),
		slog.String("host", rec.Host),
		slog.String("id", rec.ID),
		slog.String("ipAddr", rec.IPAddr),
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.String("protocol", rec.Protocol),
		slog.String("referrer", rec.Referrer),
		slog.String("reqContentType", rec.ReqContentType),
		slog.String("scheme", rec.Scheme),
		slog.Int("status", rec.Status),
		slog.String("uri", rec.URI),
		slog.String("userAgent", rec.UserAgent),
	)
}

// LogRequest logs each request once it has been served using l.
//
// LogRequest masks the values for sensitive query parameters, e.g., password.
// Duration is in milliseconds.
//
// if l is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(l *slog.Logger) Adapter {
	if l == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(h, w, r)

			uri := r.URL.Path
			q := r.URL.Query()
			campus.MaskAll(q)
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			rec := LogRequestRecord{
				BodySize:       m.Written,
				Duration:       m.Duration.Milliseconds(),
				Host:           r.Host,
				Method:         r.Method,
				Path:           r.URL.Path,
				Protocol:       r.Proto,
				Referrer:       r.Referer(),
				ReqContentType: r.Header.Get("Content-Type"),
				Scheme:         r.URL.Scheme,
				Status:         m.Code,
				URI:            uri,
				UserAgent:      r.UserAgent(),
			}

			if id, ok := r.Context().Value(campus.RequestIDKey).(string); ok {
				rec.ID = id
			}

			if ip, ok := r.Context().Value(campus.IpAddrKey).(string); ok {
				rec.IPAddr = ip
			}

			l.LogAttrs(r.Context(), slog.LevelInfo, "", slog.Any("", rec))
		})
	}
}
