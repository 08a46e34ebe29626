package upload

import (
	"net/http"

	"github.com/myschool/campus/http/resp"
)

// A Responder renders the outcome of an upload.
type Responder interface {
	Err(w http.ResponseWriter, r *http.Request, err error, opts ...resp.Fn)
	Json(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) error
}

// Handler saves the files posted under [DefaultField]
// and renders them as the "item" field of the envelope.
func (s *Service) Handler(rp Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := s.Save(r, DefaultField)
		if err != nil {
			rp.Err(w, r, err)
			return
		}

		if err := rp.Json(w, r, resp.Field("item", files)); err != nil {
			rp.Err(w, r, err)
		}
	}
}
