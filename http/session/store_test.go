package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myschool/campus"
	"github.com/myschool/campus/http/session"
	"github.com/stretchr/testify/require"
)

const (
	authKey    = "6368616e676520746869732070617373776f726420746f206120736563726574"
	encryptKey = "6d7920656e6372797074696f6e206b6579206973203332206279746573212121"
)

func TestNewStoreService(t *testing.T) {
	notHex := "ðŸ˜…"
	for _, tc := range []struct {
		name string
		cfg  session.Config
		opts []session.ServiceOpt
	}{
		{"bad-env", session.Config{Env: "nope", SessionName: "campus", AuthKey: authKey, EncryptKey: encryptKey}, nil},
		{"no-name", session.Config{Env: campus.Testing, AuthKey: authKey, EncryptKey: encryptKey}, nil},
		{"bad-auth", session.Config{Env: campus.Testing, SessionName: "campus", AuthKey: notHex, EncryptKey: encryptKey}, nil},
		{"bad-encrypt", session.Config{Env: campus.Testing, SessionName: "campus", AuthKey: authKey, EncryptKey: notHex}, nil},
		{
			"bad-max-age",
			session.Config{Env: campus.Testing, SessionName: "campus", AuthKey: authKey, EncryptKey: encryptKey},
			[]session.ServiceOpt{session.WithMaxAge(0)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			svc, err := session.NewStoreService(tc.cfg, tc.opts...)

			// Assert
			require.ErrorIs(t, err, campus.ErrBadConfig)
			require.Zero(t, svc)
		})
	}
}

func TestServiceRoundTrip(t *testing.T) {
	// Arrange
	svc, err := session.NewStoreService(
		session.Config{Env: campus.Development, SessionName: "campus", AuthKey: authKey, EncryptKey: encryptKey},
		session.WithMaxAge(3600),
	)
	require.Nil(t, err)

	r := httptest.NewRequest(http.MethodGet, "https://example.com/professor/9901", nil)
	w := httptest.NewRecorder()

	s, err := svc.GetSession(r)
	require.Nil(t, err)

	// Act
	require.Nil(t, s.Set(w, r, "last_profno", "9901"))

	r2 := httptest.NewRequest(http.MethodGet, "https://example.com/professor", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}

	s2, err := svc.GetSession(r2)

	// Assert
	require.Nil(t, err)
	actual, err := s2.GetString("last_profno")
	require.Nil(t, err)
	require.Equal(t, "9901", actual)

	cookie := w.Result().Cookies()[0]
	require.Equal(t, "campus", cookie.Name)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, 3600, cookie.MaxAge)
}

func TestSessionGetString(t *testing.T) {
	// Arrange
	st := session.NewStub(map[string]any{"str": "val", "num": 1})
	s, err := st.GetSession(nil)
	require.Nil(t, err)

	// Act + Assert
	actual, err := s.GetString("str")
	require.Nil(t, err)
	require.Equal(t, "val", actual)

	_, err = s.GetString("num")
	require.ErrorIs(t, err, session.ErrNotValid)

	_, err = s.GetString("missing")
	require.ErrorIs(t, err, session.ErrNoValue)
	require.Equal(t, 1, s.Get("num"))
}

func TestSessionDelete(t *testing.T) {
	// Arrange
	st := session.NewStub(nil)
	s, _ := st.GetSession(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	err := s.Delete(w, r)

	// Assert
	require.Nil(t, err)
}

func TestSessionContext(t *testing.T) {
	// Arrange
	st := session.NewStub(map[string]any{"k": "v"})
	s, _ := st.GetSession(nil)

	// Act
	_, missing := session.FromContext(context.Background())
	actual, err := session.FromContext(session.NewContext(context.Background(), s))

	// Assert
	require.ErrorIs(t, missing, campus.ErrMissingData)
	require.Nil(t, err)
	require.Equal(t, "v", actual.Get("k"))
}

func TestStubService(t *testing.T) {
	// Arrange
	st := session.NewStub(map[string]any{"k": "v"})
	svc := st.Service()

	// Act
	s, err := svc.GetSession(httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "v", s.Get("k"))
}
