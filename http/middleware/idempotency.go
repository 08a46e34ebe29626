package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/myschool/campus"
)

// IdempotencyHeader names the request header carrying an idempotency key.
const IdempotencyHeader = "Idempotency-Key"

const (
	idemInFlightMsg = "같은 요청을 처리하고 있습니다. 잠시 후 다시 시도하세요."
	idemMismatchMsg = "이미 다른 요청에 사용된 Idempotency-Key 입니다."
)

var _ http.ResponseWriter = idemResWriter{}

// Idempotent replays the response of a POST request when a client
// retries it with the same Idempotency-Key header.
//
// Requests without the header, or with another method, pass through untouched.
//
// The first request under a key pairs the key with a digest of the request,
// then records the status code and body of its response.
// A later request under the same key is answered by rp with:
//
//   - 409 when the first request has not responded yet
//   - 422 when its URI or parameters differ from the first request's
//
// and otherwise with the recorded status code and body.
//
// If cache is nil, an in-memory IdemResMap is used.
func Idempotent(cache IdempotencyCacher, rp ErrResponder) Adapter {
	if cache == nil {
		cache = NewIdemResMap()
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if r.Method != http.MethodPost || key == "" {
				handler.ServeHTTP(w, r)
				return
			}

			sum, err := digest(r)
			if err != nil {
				rp.Err(w, r, err)
				return
			}

			if ir, ok := cache.Get(r.Context(), key); ok {
				switch {
				case ir.URI != r.URL.RequestURI() || !bytes.Equal(ir.Req, sum):
					rp.Err(w, r, campus.NewUnprocessable(idemMismatchMsg))
				case ir.Status == 0:
					rp.Err(w, r, campus.NewConflict(idemInFlightMsg))
				default:
					if ir.ContentType != "" {
						w.Header().Set("Content-Type", ir.ContentType)
					}
					w.WriteHeader(ir.Status)
					w.Write(ir.Body.Bytes())
				}

				return
			}

			ir := NewIdemRes(r.URL.RequestURI(), sum)
			cache.Set(r.Context(), key, ir)

			handler.ServeHTTP(idemResWriter{ctx: r.Context(), c: cache, i: &ir, k: key, w: w}, r)
		})
	}
}

// digest hashes what r asks for.
//
// A parsed multipart form is hashed by its values and the names, sizes and
// contents of its files; any other body is hashed as is and restored.
func digest(r *http.Request) ([]byte, error) {
	h := sha256.New()
	if r.MultipartForm != nil {
		keys := make([]string, 0, len(r.MultipartForm.Value))
		for k := range r.MultipartForm.Value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			io.WriteString(h, k)
			for _, v := range r.MultipartForm.Value[k] {
				io.WriteString(h, v)
			}
		}

		fields := make([]string, 0, len(r.MultipartForm.File))
		for k := range r.MultipartForm.File {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		for _, k := range fields {
			for _, fh := range r.MultipartForm.File[k] {
				io.WriteString(h, k+"\x00"+fh.Filename)
				f, err := fh.Open()
				if err != nil {
					return nil, campus.NewRuntime(err.Error())
				}

				_, err = io.Copy(h, f)
				f.Close()
				if err != nil {
					return nil, campus.NewRuntime(err.Error())
				}
			}
		}

		return h.Sum(nil), nil
	}

	if r.Body == nil || r.Body == http.NoBody {
		return h.Sum(nil), nil
	}

	b, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, campus.NewBadRequest("")
		}

		return nil, campus.NewRuntime(err.Error())
	}

	h.Write(b)
	return h.Sum(nil), nil
}

// An IdemRes is data from an HTTP response
// that can be reused when another request
// matches the same idempotency key.
type IdemRes struct {
	Body        *bytes.Buffer
	ContentType string
	Req         []byte
	Status      int
	URI         string
}

// An idemResGob is an intermediate representation of
// an IdemRes for the purposes of gob encoding/decoding.
type idemResGob struct {
	B  []byte
	CT string
	R  []byte
	S  int
	U  string
}

// NewIdemRes constructs a new IdemRes.
func NewIdemRes(uri string, hashedReq []byte) IdemRes {
	return IdemRes{Body: bytes.NewBuffer(nil), URI: uri, Req: hashedReq}
}

// GobDecode implements gob.GobDecoder.
func (i *IdemRes) GobDecode(b []byte) error {
	g := new(idemResGob)
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(g); err != nil {
		return err
	}

	i.Body = bytes.NewBuffer(g.B)
	i.ContentType, i.Req, i.Status, i.URI = g.CT, g.R, g.S, g.U
	return nil
}

// GobEncode implements gob.GobEncoder.
func (i IdemRes) GobEncode() ([]byte, error) {
	var body []byte
	if i.Body != nil {
		body = i.Body.Bytes()
	}

	buf := bytes.NewBuffer(nil)
	g := idemResGob{body, i.ContentType, i.Req, i.Status, i.URI}
	if err := gob.NewEncoder(buf).Encode(g); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// An idemResWriter pairs an IdemRes with an http.ResponseWriter
// so both are written to by an HTTP handler.
// Changes to the IdemRes are saved in the cache.
type idemResWriter struct {
	ctx context.Context
	c   IdempotencyCacher
	i   *IdemRes
	k   string
	w   http.ResponseWriter
}

func (irw idemResWriter) Header() http.Header { return irw.w.Header() }

func (irw idemResWriter) Write(b []byte) (int, error) {
	if irw.i.Status == 0 {
		irw.WriteHeader(http.StatusOK)
	}

	n, err := irw.w.Write(b)
	if err != nil {
		return n, err
	}

	irw.i.Body.Write(b[:n])
	irw.c.Set(irw.ctx, irw.k, *irw.i)
	return n, nil
}

// WriteHeader records s before writing it.
func (irw idemResWriter) WriteHeader(s int) {
	irw.i.Status = s
	irw.i.ContentType = irw.w.Header().Get("Content-Type")
	irw.c.Set(irw.ctx, irw.k, *irw.i)
	irw.w.WriteHeader(s)
}
