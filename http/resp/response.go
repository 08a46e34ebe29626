package resp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/myschool/campus"
	"github.com/myschool/campus/logger"
)

const okMsg = "OK"

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w      http.ResponseWriter
	r      *http.Request
	code   int
	msg    string
	fields map[string]any
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		if http.StatusText(c) == "" {
			return fmt.Errorf("%w: status code %d", ErrInvalid, c)
		}

		r.code = c
		return nil
	}
}

// Msg sets the rtmsg of the response.
func Msg(msg string) Fn {
	return func(_ Responder, r *Response) error {
		r.msg = msg
		return nil
	}
}

// Data merges fields into those written in the envelope.
// Later calls overwrite keys set by earlier ones.
func Data(fields map[string]any) Fn {
	return func(_ Responder, r *Response) error {
		if r.fields == nil {
			r.fields = make(map[string]any, len(fields))
		}

		for k, v := range fields {
			r.fields[k] = v
		}

		return nil
	}
}

// Field sets a single field written in the envelope.
func Field(key string, val any) Fn {
	return Data(map[string]any{key: val})
}

// Err logs e and sets the status code and rtmsg from it.
//
// A [*campus.Error] anywhere in the chain of e supplies both.
// Any other error is treated as a Runtime error with the message of e.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e == nil {
			return nil
		}

		// logged stands in for e so rewrapped errors keep a stack in the log.
		logged := e
		var cerr *campus.Error
		if !errors.As(e, &cerr) {
			cerr = campus.NewRuntime(e.Error())
			logged = cerr
		}

		msg := fmt.Sprintf("%s: %s", cerr.Name(), cerr.Msg())
		if cerr.Code() >= http.StatusInternalServerError {
			d.logger.Error(msg, &logger.LogContext{Error: logged, Request: r.r})
		} else {
			d.logger.Warn(msg, &logger.LogContext{
				Data:    map[string]any{"name": cerr.Name(), "stack": cerr.Stack()},
				Request: r.r,
			})
		}

		r.code = cerr.Code()
		r.msg = cerr.Msg()

		return nil
	}
}
