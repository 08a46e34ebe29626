package req

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/myschool/campus"
	"github.com/myschool/campus/validate"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return dec
}

// Decode fills structPtr with the parameters verb reads, following the same precedence as Resolve,
// and validates the result with [validate.Struct].
//
// Struct fields are matched by their "schema" struct tag.
// Values are trimmed and blank values are left unset.
func (p *Params) Decode(verb string, structPtr any) error {
	vals := p.collect(strings.ToUpper(verb))
	if err := decoder.Decode(structPtr, vals); err != nil {
		return translateDecoderError(err)
	}

	return validate.Struct(structPtr)
}

// collect merges the collections verb reads into one url.Values,
// earlier collections taking precedence.
func (p *Params) collect(verb string) url.Values {
	vals := make(url.Values)
	add := func(k string, vs ...string) {
		if _, ok := vals[k]; ok {
			return
		}

		var kept []string
		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}

		if len(kept) > 0 {
			vals[k] = kept
		}
	}

	if verb != http.MethodGet {
		for k, vs := range p.Body {
			add(k, vs...)
		}

		return vals
	}

	for k, vs := range p.Query {
		add(k, vs...)
	}

	for k, v := range p.Path {
		add(k, v)
	}

	return vals
}

// translateDecoderError converts an error returned by *schema.Decoder into a client error
// when the request is at fault, and an unexpected error otherwise.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	for _, pkgErr := range pkgErrs {
		var convErr schema.ConversionError
		if errors.As(pkgErr, &convErr) {
			return campus.NewBadRequest(fmt.Sprintf("%s 값의 형식이 올바르지 않습니다.", convErr.Key))
		}
	}

	return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
}
