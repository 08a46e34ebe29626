package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/myschool/campus"
	"github.com/myschool/campus/logger"
)

const (
	DefaultField    = "file"
	DefaultURLPath  = "/upload"
	DefaultMaxSize  = 20 << 20
	DefaultMaxCount = 10

	imagePrefix = "image/"

	// formSlack allows for multipart headers and plain fields next to the files.
	formSlack int64 = 1 << 20
)

// Config controls where a Service stores files and what it accepts.
type Config struct {
	Dir      string
	URLPath  string
	MaxSize  int64
	MaxCount int
}

// A File describes one stored upload.
type File struct {
	Field       string `json:"fieldName"`
	OrigName    string `json:"originalName"`
	SaveName    string `json:"saveName"`
	Dir         string `json:"dir"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// A Service saves the image files of multipart requests to disk.
type Service struct {
	cfg Config
	l   logger.Logger
	now func() time.Time
}

// NewService constructs a *Service from cfg, creating cfg.Dir if needed.
//
// Zero values in cfg take the package defaults; cfg.Dir is required.
func NewService(cfg Config, opts ...ServiceOptFn) (*Service, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: no upload dir", campus.ErrBadConfig)
	}

	if cfg.URLPath == "" {
		cfg.URLPath = DefaultURLPath
	}

	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}

	if cfg.MaxCount <= 0 {
		cfg.MaxCount = DefaultMaxCount
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating upload dir: %s", campus.ErrBadConfig, err)
	}

	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.l == nil {
		s.l = logger.New(nil)
	}

	return s, nil
}

// Dir is where s stores files.
func (s *Service) Dir() string { return s.cfg.Dir }

// URLPath is the path prefix the URLs of stored files start with.
func (s *Service) URLPath() string { return s.cfg.URLPath }

// MaxBodySize is the largest request body Save reads:
// MaxCount files of MaxSize bytes plus room for the rest of the form.
func (s *Service) MaxBodySize() int64 {
	return s.cfg.MaxSize*int64(s.cfg.MaxCount) + formSlack
}

// Save stores the files r carries under field.
//
// Every file is checked before any is written.
// Too many files, a file too large, or a file that is not an image returns a client error,
// as does a request without files.
func (s *Service) Save(r *http.Request, field string) ([]File, error) {
	if r.MultipartForm == nil {
		r.Body = http.MaxBytesReader(nil, r.Body, s.MaxBodySize())

		// Memory spills to temp files; the size limit is per file below.
		if err := r.ParseMultipartForm(s.cfg.MaxSize); err != nil {
			var maxErr *http.MaxBytesError
			switch {
			case errors.Is(err, http.ErrNotMultipart):
				return nil, campus.NewBadRequest(noFileMsg)
			case errors.As(err, &maxErr):
				return nil, campus.NewBadRequest(fmt.Sprintf(bodyTooLargeMsg, s.MaxBodySize()>>20))
			}

			return nil, campus.NewBadRequest(fmt.Sprintf(badFormMsg, err))
		}
	}

	fhs := r.MultipartForm.File[field]
	switch {
	case len(fhs) == 0:
		return nil, campus.NewBadRequest(noFileMsg)
	case len(fhs) > s.cfg.MaxCount:
		return nil, campus.NewBadRequest(fmt.Sprintf(tooManyMsg, s.cfg.MaxCount))
	}

	types := make([]string, len(fhs))
	for i, fh := range fhs {
		ct, err := s.check(fh)
		if err != nil {
			return nil, err
		}

		types[i] = ct
	}

	files := make([]File, 0, len(fhs))
	for i, fh := range fhs {
		f, err := s.write(field, fh, types[i])
		if err != nil {
			s.remove(files)
			return nil, err
		}

		files = append(files, f)
	}

	for _, f := range files {
		s.l.Debug(fmt.Sprintf("[upload] %s -> %s (%d bytes)", f.OrigName, f.SaveName, f.Size), nil)
	}

	return files, nil
}

// check asserts fh is within the size limit and is an image,
// returning its sniffed content type.
func (s *Service) check(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.cfg.MaxSize {
		return "", campus.NewBadRequest(fmt.Sprintf(tooLargeMsg, fh.Filename, s.cfg.MaxSize>>20))
	}

	if !strings.HasPrefix(strings.ToLower(fh.Header.Get("Content-Type")), imagePrefix) {
		return "", campus.NewBadRequest(notImageMsg)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %s", campus.ErrUnexpected, fh.Filename, err)
	}
	defer f.Close()

	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: sniffing %s: %s", campus.ErrUnexpected, fh.Filename, err)
	}

	if !strings.HasPrefix(m.String(), imagePrefix) {
		return "", campus.NewBadRequest(notImageMsg)
	}

	return m.String(), nil
}

func (s *Service) write(field string, fh *multipart.FileHeader, contentType string) (File, error) {
	name := fmt.Sprintf(
		"%d-%s%s",
		s.now().UnixMilli(),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		strings.ToLower(filepath.Ext(fh.Filename)),
	)

	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("%w: opening %s: %s", campus.ErrUnexpected, fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(s.cfg.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return File{}, fmt.Errorf("%w: creating %s: %s", campus.ErrUnexpected, name, err)
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(filepath.Join(s.cfg.Dir, name))
		return File{}, fmt.Errorf("%w: writing %s: %s", campus.ErrUnexpected, name, err)
	}

	return File{
		Field:       field,
		OrigName:    fh.Filename,
		SaveName:    name,
		Dir:         filepath.ToSlash(s.cfg.Dir),
		URL:         path.Join(s.cfg.URLPath, name),
		Size:        n,
		ContentType: contentType,
	}, nil
}

func (s *Service) remove(files []File) {
	for _, f := range files {
		if err := os.Remove(filepath.Join(s.cfg.Dir, f.SaveName)); err != nil {
			s.l.Warn("removing partial upload", &logger.LogContext{Error: err, Data: map[string]any{"file": f.SaveName}})
		}
	}
}
