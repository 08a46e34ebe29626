package resp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/myschool/campus"
	"github.com/myschool/campus/logger"
)

// Responder maintains reusable pieces for responding to HTTP requests.
// It exposes the methods for writing the JSON envelope as an HTTP response.
//
// Most oftentimes, setting up a single instance of a Responder suffices for an application.
//
// When handling a specific HTTP request, calling code supplies additional data
// through Fn functions.
type Responder struct {
	logger logger.Logger

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool

	// now stamps pubdate
	now func() time.Time
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool: &sync.Pool{New: func() any { return new(bytes.Buffer) }},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New(nil)
	}

	return d
}

// Err is the error sink: it logs err and renders it in the envelope.
//
// A [*campus.Error] renders with its own status code and message;
// any other error renders as a Runtime error.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	if err == nil {
		err = campus.NewRuntime("")
	}

	rr, derr := doer.do(w, r, opts...)
	if errors.Is(derr, ErrDone) {
		doer.logger.Warn("request ended before responding", &logger.LogContext{Error: err, Request: r})
		return
	}

	if derr != nil {
		rr = &Response{w: w, r: r}
	}

	_ = Err(err)(*doer, rr)
	if werr := doer.write(rr); werr != nil {
		doer.logger.Error("failed writing error response", &logger.LogContext{Error: werr, Request: r})
	}
}

// NotFound renders a PageNotFound error.
func (doer *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	doer.Err(w, r, campus.NewPageNotFound())
}

// Json writes the envelope, applying opts.
// The status code defaults to 200 and rtmsg to "OK".
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	return doer.write(rr)
}

// Result writes the envelope with code, msg and fields.
func (doer *Responder) Result(w http.ResponseWriter, r *http.Request, code int, msg string, fields map[string]any) error {
	return doer.Json(w, r, Code(code), Msg(msg), Data(fields))
}

func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	resp := &Response{
		w:    w,
		r:    r,
		code: http.StatusOK,
		msg:  okMsg,
	}

	for _, opt := range opts {
		select {
		case <-r.Context().Done():
			return nil, fmt.Errorf("%w", ErrDone)
		default:
			if err := opt(*doer, resp); err != nil {
				return nil, err
			}
		}
	}

	return resp, nil
}

func (doer *Responder) write(rr *Response) error {
	env := Envelope{
		Rt:      rr.code,
		RtMsg:   rr.msg,
		Fields:  rr.fields,
		PubDate: doer.now(),
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(env); err != nil {
		if rr.code >= http.StatusInternalServerError {
			http.Error(rr.w, rr.msg, rr.code)
			return err
		}

		doer.Err(rr.w, rr.r, campus.NewRuntime(err.Error()))
		return err
	}

	rr.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rr.w.WriteHeader(rr.code)
	if _, err := b.WriteTo(rr.w); err != nil {
		return err
	}

	return nil
}
