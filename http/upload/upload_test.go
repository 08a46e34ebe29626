package upload_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/myschool/campus"
	"github.com/myschool/campus/http/resp"
	"github.com/myschool/campus/http/upload"
	"github.com/myschool/campus/logger"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type part struct {
	name        string
	contentType string
	body        []byte
}

func newRequest(t *testing.T, field string, parts ...part) *http.Request {
	t.Helper()

	b := new(bytes.Buffer)
	mw := multipart.NewWriter(b)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.contentType)

		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("title", "profile"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", b)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func newService(t *testing.T, cfg upload.Config) *upload.Service {
	t.Helper()

	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(t.TempDir(), "upload")
	}

	s, err := upload.NewService(
		cfg,
		upload.WithLogger(logger.New(slog.New(slog.NewJSONHandler(io.Discard, nil)))),
		upload.WithClock(func() time.Time { return time.UnixMilli(1709285405123) }),
	)
	require.NoError(t, err)
	return s
}

func requireBadRequest(t *testing.T, err error) {
	t.Helper()

	var cerr *campus.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, http.StatusBadRequest, cerr.Code())
}

func TestNewServiceNoDir(t *testing.T) {
	// Arrange + Act
	_, err := upload.NewService(upload.Config{})

	// Assert
	require.ErrorIs(t, err, campus.ErrBadConfig)
}

func TestServiceSave(t *testing.T) {
	// Arrange
	s := newService(t, upload.Config{})
	r := newRequest(t, "file",
		part{"Photo.PNG", "image/png", pngBytes},
		part{"second.png", "image/png", pngBytes},
	)

	// Act
	files, err := s.Save(r, "file")

	// Assert
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		require.Equal(t, "file", f.Field)
		require.Regexp(t, `^1709285405123-[0-9a-f]{8}\.png$`, f.SaveName)
		require.Equal(t, "/upload/"+f.SaveName, f.URL)
		require.Equal(t, int64(len(pngBytes)), f.Size)
		require.Equal(t, "image/png", f.ContentType)

		saved, err := os.ReadFile(filepath.Join(s.Dir(), f.SaveName))
		require.NoError(t, err)
		require.Equal(t, pngBytes, saved)
	}

	require.Equal(t, "Photo.PNG", files[0].OrigName)
	require.NotEqual(t, files[0].SaveName, files[1].SaveName)
}

func TestServiceSaveRejects(t *testing.T) {
	for _, tc := range []struct {
		name  string
		cfg   upload.Config
		parts []part
	}{
		{"no-files", upload.Config{}, nil},
		{"not-image-header", upload.Config{}, []part{{"notes.txt", "text/plain", []byte("hello")}}},
		{"not-image-content", upload.Config{}, []part{{"fake.png", "image/png", []byte("just text")}}},
		{"too-large", upload.Config{MaxSize: 8}, []part{{"a.png", "image/png", pngBytes}}},
		{
			"too-many",
			upload.Config{MaxCount: 1},
			[]part{{"a.png", "image/png", pngBytes}, {"b.png", "image/png", pngBytes}},
		},
		{
			"one-bad-of-many",
			upload.Config{},
			[]part{{"a.png", "image/png", pngBytes}, {"b.txt", "text/plain", []byte("x")}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			s := newService(t, tc.cfg)
			r := newRequest(t, "file", tc.parts...)

			// Act
			files, err := s.Save(r, "file")

			// Assert
			requireBadRequest(t, err)
			require.Nil(t, files)

			entries, err := os.ReadDir(s.Dir())
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

func TestServiceSaveNotMultipart(t *testing.T) {
	// Arrange
	s := newService(t, upload.Config{})
	r := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file":"a.png"}`))
	r.Header.Set("Content-Type", "application/json")

	// Act
	_, err := s.Save(r, "file")

	// Assert
	requireBadRequest(t, err)
}

func TestServiceHandler(t *testing.T) {
	// Arrange
	s := newService(t, upload.Config{})
	rp := resp.NewResponder(resp.WithLogger(logger.New(slog.New(slog.NewJSONHandler(io.Discard, nil)))))

	w := httptest.NewRecorder()
	r := newRequest(t, upload.DefaultField, part{"a.gif", "image/gif", []byte("GIF89a\x01\x00\x01\x00")})

	// Act
	s.Handler(rp).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rt   int           `json:"rt"`
		Item []upload.File `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, http.StatusOK, body.Rt)
	require.Len(t, body.Item, 1)
	require.Equal(t, "image/gif", body.Item[0].ContentType)
	require.True(t, strings.HasSuffix(body.Item[0].URL, ".gif"))
}

func TestServiceSaveBodyTooLarge(t *testing.T) {
	// Arrange
	s := newService(t, upload.Config{MaxSize: 8, MaxCount: 1})
	r := newRequest(t, upload.DefaultField, part{"big.png", "image/png", bytes.Repeat(pngBytes, (2<<20)/len(pngBytes))})

	// Act
	files, err := s.Save(r, upload.DefaultField)

	// Assert
	require.Nil(t, files)
	requireBadRequest(t, err)
	require.Contains(t, err.Error(), "업로드 요청의 용량이 너무 큽니다.")

	entries, rerr := os.ReadDir(s.Dir())
	require.NoError(t, rerr)
	require.Empty(t, entries)
}

func TestServiceMaxBodySize(t *testing.T) {
	s := newService(t, upload.Config{MaxSize: 2 << 20, MaxCount: 3})
	require.Equal(t, int64(6<<20+1<<20), s.MaxBodySize())
}
