package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myschool/campus"
	"github.com/myschool/campus/http/middleware"
	"github.com/stretchr/testify/require"
)

func TestLogRequestNil(t *testing.T) {
	// Arrange + Act
	w := httptest.NewRecorder()
	middleware.LogRequest(nil)(noopHandler()).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLogRequest(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := slog.New(slog.NewJSONHandler(b, nil))

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	r := httptest.NewRequest(http.MethodGet, "https://example.com/login?user_id=kim&user_pw=secret", nil)
	r.Header.Set("Referer", "https://example.com/")
	r.Header.Set("User-Agent", "campus-test")
	ctx := context.WithValue(r.Context(), campus.RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, campus.IpAddrKey, "1.1.1.1")
	r = r.WithContext(ctx)

	// Act
	middleware.LogRequest(l)(h).ServeHTTP(httptest.NewRecorder(), r)

	// Assert
	var actual middleware.LogRequestRecord
	require.NoError(t, json.Unmarshal(b.Bytes(), &actual))
	actual.Duration = 0

	expected := middleware.LogRequestRecord{
		BodySize:  int64(len("short and stout")),
		Host:      "example.com",
		ID:        "req-1",
		IPAddr:    "1.1.1.1",
		Method:    http.MethodGet,
		Path:      "/login",
		Protocol:  "HTTP/1.1",
		Referrer:  "https://example.com/",
		Scheme:    "https",
		Status:    http.StatusTeapot,
		URI:       "/login?user_id=kim&user_pw=" + campus.LogMaskVal,
		UserAgent: "campus-test",
	}
	require.Equal(t, expected, actual)
}
