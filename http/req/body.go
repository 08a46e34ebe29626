package req

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/myschool/campus"
)

const (
	malformedBodyMsg = "요청 본문의 형식이 올바르지 않습니다."
	tooLargeBodyMsg  = "요청 본문의 용량이 너무 큽니다."

	mimeForm      = "application/x-www-form-urlencoded"
	mimeJSON      = "application/json"
	mimeMultipart = "multipart/form-data"
)

// readBody collects the body parameters of r according to its Content-Type.
// Bodies of other types yield no parameters.
//
// Bodies are read through [http.MaxBytesReader], so r.Body stays capped for later handlers.
func readBody(r *http.Request, cfg paramsConfig) (url.Values, error) {
	body := make(url.Values)
	if r.Body == nil || r.Body == http.NoBody {
		return body, nil
	}

	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return body, nil
	}

	switch mt {
	case mimeMultipart:
		if r.MultipartForm != nil {
			copyValues(body, r.PostForm)
			return body, nil
		}

		r.Body = http.MaxBytesReader(nil, r.Body, cfg.maxMultipartBytes)
		if err := r.ParseMultipartForm(cfg.maxMemory); err != nil {
			if tooLarge(err) {
				return nil, campus.NewBadRequest(tooLargeBodyMsg)
			}

			return nil, campus.NewBadRequest(malformedBodyMsg)
		}

		copyValues(body, r.PostForm)

	case mimeForm:
		if r.PostForm != nil {
			copyValues(body, r.PostForm)
			return body, nil
		}

		r.Body = http.MaxBytesReader(nil, r.Body, cfg.maxBytes)
		b, err := restoreBody(r)
		if err != nil {
			return nil, err
		}

		vals, err := url.ParseQuery(string(b))
		if err != nil {
			return nil, campus.NewBadRequest(malformedBodyMsg)
		}

		copyValues(body, vals)

	case mimeJSON:
		r.Body = http.MaxBytesReader(nil, r.Body, cfg.maxBytes)
		b, err := restoreBody(r)
		if err != nil {
			return nil, err
		}

		if err := decodeJSON(b, body); err != nil {
			return nil, err
		}
	}

	return body, nil
}

// restoreBody reads all of r.Body and replaces it with a reader over the same bytes.
func restoreBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(b))

	if tooLarge(err) {
		return nil, campus.NewBadRequest(tooLargeBodyMsg)
	}

	if err != nil {
		return nil, campus.NewRuntime(err.Error())
	}

	return b, nil
}

// tooLarge reports whether err comes from reading past an [http.MaxBytesReader] limit.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeJSON flattens the top-level scalars of a JSON object into dst.
// Null, array, and object members are skipped.
func decodeJSON(b []byte, dst url.Values) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	m := make(map[string]any)
	if err := dec.Decode(&m); err != nil {
		return campus.NewBadRequest(malformedBodyMsg)
	}

	for k, v := range m {
		switch v := v.(type) {
		case string:
			dst.Set(k, v)
		case json.Number:
			dst.Set(k, v.String())
		case bool:
			dst.Set(k, strconv.FormatBool(v))
		}
	}

	return nil
}

func copyValues(dst, src url.Values) {
	for k, vs := range src {
		dst[k] = append([]string(nil), vs...)
	}
}
