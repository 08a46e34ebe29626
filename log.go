package campus

import (
	"log/slog"
	"net/url"
	"strings"
)

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

var (
	AppLogKind  = slog.StringValue("app")
	HTTPLogKind = slog.StringValue("http")

	// MaskedLogValue is a convenience [log/slog.Value]
	// to be used in implementations of [log/slog.LogValuer]
	// to hide sensitive data from log messages.
	MaskedLogValue = slog.StringValue(LogMaskVal)

	sensitiveKeys = []string{"password", "passwd", "pwd", "user_pw"}
)

// IsSensitiveKey asserts whether values stored under key must not be logged verbatim.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if key == k {
			return true
		}
	}

	return false
}

// Mask replaces the values for key in vals with a single LogMaskVal.
// Mask does nothing if key is not set in vals.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals.Set(key, LogMaskVal)
}

// MaskAll applies Mask to every sensitive key in vals.
func MaskAll(vals url.Values) {
	for k := range vals {
		if IsSensitiveKey(k) {
			Mask(vals, k)
		}
	}
}

// NewLogLevel parses val into a [log/slog.Level], defaulting to [log/slog.LevelInfo].
func NewLogLevel(val string) slog.Level {
	switch strings.ToUpper(val) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
