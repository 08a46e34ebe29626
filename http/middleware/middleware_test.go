package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myschool/campus/http/middleware"
	"github.com/myschool/campus/http/resp"
	"github.com/myschool/campus/logger"
	"github.com/stretchr/testify/require"
)

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func newLogger(w io.Writer) logger.Logger {
	return logger.New(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func newResponder() *resp.Responder {
	return resp.NewResponder(resp.WithLogger(newLogger(io.Discard)))
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	adapter := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	// Act
	middleware.Chain(h, adapter("first"), middleware.NoopAdapter, adapter("second")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestChainEmpty(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	b := new(bytes.Buffer)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.WriteString("served")
	})

	// Act
	middleware.Chain(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, "served", b.String())
}
