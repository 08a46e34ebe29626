package req_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/myschool/campus"
	"github.com/myschool/campus/http/req"
	"github.com/myschool/campus/logger"
	"github.com/myschool/campus/validate"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) logger.Logger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logger.New(slog.New(h))
}

func TestResolveGet(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "/professor/9901?name=+Alice+&blank=+++&empty=", nil)
	r = mux.SetURLVars(r, map[string]string{"profno": "9901", "name": "path-name", "empty": "from-path"})
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p, err := req.NewParams(r, nil)
	require.Nil(t, err)

	// Act + Assert
	require.Equal(t, "Alice", p.Resolve(http.MethodGet, "name", ""))
	require.Equal(t, "Alice", p.Get("name", ""))
	require.Equal(t, "9901", p.Get("profno", ""))
	require.Equal(t, "fallback", p.Get("blank", "fallback"))
	require.Equal(t, "from-path", p.Get("empty", "fallback"))
	require.Equal(t, "fallback", p.Get("missing", "fallback"))
	require.Equal(t, "", p.Get("missing", ""))
	require.Equal(t, "Alice", p.Resolve("get", "name", ""))

	// non-GET verbs never read the query or the path
	require.Equal(t, "fallback", p.Post("name", "fallback"))
	require.Equal(t, "fallback", p.Put("profno", "fallback"))
	require.Equal(t, "fallback", p.Delete("profno", "fallback"))
}

func TestResolveBody(t *testing.T) {
	for _, tc := range []struct {
		name        string
		contentType string
		body        func() io.Reader
		contentFn   func(w *multipart.Writer)
	}{
		{
			"form",
			"application/x-www-form-urlencoded",
			func() io.Reader { return strings.NewReader("name=+Alice+&blank=+&zero=0") },
			nil,
		},
		{
			"json",
			"application/json; charset=utf-8",
			func() io.Reader {
				return strings.NewReader(`{"name":" Alice ","blank":"  ","zero":0,"nil":null,"nested":{"a":1},"list":[1]}`)
			},
			nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
				// Arrange
				r := httptest.NewRequest(method, "/professor?name=query", tc.body())
				r.Header.Set("Content-Type", tc.contentType)

				// Act
				p, err := req.NewParams(r, nil)

				// Assert
				require.Nil(t, err)
				require.Equal(t, "Alice", p.Resolve(method, "name", ""))
				require.Equal(t, "def", p.Resolve(method, "blank", "def"))
				require.Equal(t, "0", p.Resolve(method, "zero", "def"))
				require.Equal(t, "def", p.Resolve(method, "nil", "def"))
				require.Equal(t, "def", p.Resolve(method, "nested", "def"))
				require.Equal(t, "def", p.Resolve(method, "list", "def"))
				require.Equal(t, "query", p.Get("name", ""))
			}
		})
	}
}

func TestResolveMultipart(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	mw := multipart.NewWriter(b)
	require.Nil(t, mw.WriteField("name", " 홍길동 "))
	fw, err := mw.CreateFormFile("photo", "a.png")
	require.Nil(t, err)
	_, err = fw.Write([]byte("\x89PNG"))
	require.Nil(t, err)
	require.Nil(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", b)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	// Act
	p, err := req.NewParams(r, nil)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "홍길동", p.Post("name", ""))
	require.NotNil(t, r.MultipartForm)
	require.Len(t, r.MultipartForm.File["photo"], 1)
}

func TestResolveAbsentBody(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodPost, "/professor", nil)

	// Act
	p, err := req.NewParams(r, nil)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "0", p.Post("age", "0"))
}

func TestNewParamsMalformedJSON(t *testing.T) {
	for _, body := range []string{`{"name":`, `["a"]`, `"a"`} {
		t.Run(body, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodPost, "/professor", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			// Act
			p, err := req.NewParams(r, nil)

			// Assert
			require.Nil(t, p)
			require.ErrorIs(t, err, campus.ErrBadRequest)
		})
	}
}

func TestNewParamsBodyTooLarge(t *testing.T) {
	big := strings.Repeat("가", 64)

	multi := new(bytes.Buffer)
	mw := multipart.NewWriter(multi)
	fw, err := mw.CreateFormFile("photo", "a.png")
	require.Nil(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0x89}, 256))
	require.Nil(t, err)
	require.Nil(t, mw.Close())

	for _, tc := range []struct {
		name string
		ct   string
		body string
	}{
		{"json", "application/json", `{"name":"` + big + `"}`},
		{"form", "application/x-www-form-urlencoded", "name=" + big},
		{"multipart", mw.FormDataContentType(), multi.String()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodPost, "/professor", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", tc.ct)

			// Act
			p, err := req.NewParams(r, nil, req.WithMaxBytes(64), req.WithMaxMultipartBytes(128))

			// Assert
			require.Nil(t, p)
			require.ErrorIs(t, err, campus.ErrBadRequest)
		})
	}
}

func TestNewParamsBodyWithinLimit(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodPost, "/professor", strings.NewReader(`{"name":"김"}`))
	r.Header.Set("Content-Type", "application/json")

	// Act
	p, err := req.NewParams(r, nil, req.WithMaxBytes(64))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "김", p.Post("name", ""))
}

func TestNewParamsRestoresBody(t *testing.T) {
	// Arrange
	body := `{"name":"Alice"}`
	r := httptest.NewRequest(http.MethodPost, "/professor", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	// Act
	_, err := req.NewParams(r, nil)

	// Assert
	require.Nil(t, err)
	b, err := io.ReadAll(r.Body)
	require.Nil(t, err)
	require.Equal(t, body, string(b))
}

func TestNewParamsAlreadyParsedForm(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodPost, "/professor/1", strings.NewReader("_method=DELETE&name=Alice"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, "DELETE", r.FormValue("_method"))
	r.Method = http.MethodDelete

	// Act
	p, err := req.NewParams(r, nil)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "Alice", p.Delete("name", ""))
}

func TestResolveLogs(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("user_id=alice&password=hunter2"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p, err := req.NewParams(r, newLogger(buf))
	require.Nil(t, err)

	// Act
	p.Post("user_id", "")
	p.Post("password", "")

	// Assert
	require.Contains(t, buf.String(), "[HTTP POST Params] user_id = alice")
	require.Contains(t, buf.String(), "[HTTP POST Params] password = "+campus.LogMaskVal)
	require.NotContains(t, buf.String(), "hunter2")
}

func TestResolveThenValidate(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "/?name=+Alice+", nil)
	p, err := req.NewParams(r, nil)
	require.Nil(t, err)

	// Act
	name := p.Resolve(http.MethodGet, "name", "")
	err = validate.Value(name, "required")

	// Assert
	require.Equal(t, "Alice", name)
	require.Nil(t, err)
}

func TestParamsContext(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	p, err := req.NewParams(r, nil)
	require.Nil(t, err)

	// Act
	_, missing := req.ParamsFromContext(context.Background())
	actual, err := req.ParamsFromContext(req.NewParamsContext(context.Background(), p))

	// Assert
	require.ErrorIs(t, missing, campus.ErrMissingData)
	require.Nil(t, err)
	require.Same(t, p, actual)
}
