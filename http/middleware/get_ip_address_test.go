package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myschool/campus"
	"github.com/myschool/campus/http/middleware"
	"github.com/stretchr/testify/require"
)

func TestGetIPAddress(t *testing.T) {
	tcs := []struct {
		name       string
		header     map[string]string
		remoteAddr string
		expected   string
	}{
		{"No-Match", nil, "bad-addr", "0.0.0.0"},
		{"Remote-Addr", nil, "203.0.113.7:52000", "203.0.113.7"},
		{"Only-Private-IP", map[string]string{"X-Forwarded-For": "192.168.0.0"}, "bad-addr", "0.0.0.0"},
		{"Only-Public-IP", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "203.0.113.7:52000", "1.1.1.1"},
		{"Get-Before-Proxy", map[string]string{"X-Real-Ip": "10.0.0.1,1.1.1.1"}, "", "1.1.1.1"},
		{
			"Get-First-Public",
			map[string]string{"X-Real-Ip": "10.255.255.255,8.8.8.8,1.1.1.1,172.16.0.0"},
			"",
			"1.1.1.1",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.header {
				r.Header.Set(k, v)
			}

			// Act + Assert
			require.Equal(t, tc.expected, middleware.GetIPAddress(r))
		})
	}
}

func TestInjectIPAddress(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "1.1.1.1")

	var actual string

	// Act
	middleware.InjectIPAddress()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		actual, _ = rx.Context().Value(campus.IpAddrKey).(string)
	})).ServeHTTP(w, r)

	// Assert
	require.Equal(t, "1.1.1.1", actual)
}
