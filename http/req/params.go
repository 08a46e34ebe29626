package req

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/myschool/campus"
	"github.com/myschool/campus/logger"
)

// Params holds the parameters of a single HTTP request, grouped by where they were sent.
type Params struct {
	Query url.Values
	Path  map[string]string
	Body  url.Values

	l logger.Logger
}

// NewParams reads the query string, path variables, and body of r.
//
// A malformed body returns a client error, as does a body over its size limit;
// cf. WithMaxBytes and WithMaxMultipartBytes.
// If r.Body is read, it is restored so later handlers may read it again.
func NewParams(r *http.Request, l logger.Logger, opts ...ParamsOptFn) (*Params, error) {
	cfg := paramsConfig{
		maxMemory:         defaultMaxMemory,
		maxBytes:          defaultMaxBytes,
		maxMultipartBytes: defaultMaxMultipartBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	body, err := readBody(r, cfg)
	if err != nil {
		return nil, err
	}

	path := mux.Vars(r)
	if path == nil {
		path = make(map[string]string)
	}

	return &Params{
		Query: r.URL.Query(),
		Path:  path,
		Body:  body,
		l:     l,
	}, nil
}

// Resolve gets the parameter named key for verb.
//
// For GET, the query string is read, then the path; any other verb reads the body.
// An empty value falls through to the next place.
// The value is trimmed; if nothing is left, def is returned.
func (p *Params) Resolve(verb, key, def string) string {
	verb = strings.ToUpper(verb)

	var val string
	switch verb {
	case http.MethodGet:
		val = p.Query.Get(key)
		if val == "" {
			val = p.Path[key]
		}
	default:
		val = p.Body.Get(key)
	}

	val = strings.TrimSpace(val)
	if val == "" {
		val = def
	}

	p.debug(verb, key, val)

	return val
}

// Get resolves key as a GET parameter.
func (p *Params) Get(key, def string) string { return p.Resolve(http.MethodGet, key, def) }

// Post resolves key as a POST parameter.
func (p *Params) Post(key, def string) string { return p.Resolve(http.MethodPost, key, def) }

// Put resolves key as a PUT parameter.
func (p *Params) Put(key, def string) string { return p.Resolve(http.MethodPut, key, def) }

// Delete resolves key as a DELETE parameter.
func (p *Params) Delete(key, def string) string { return p.Resolve(http.MethodDelete, key, def) }

func (p *Params) debug(verb, key, val string) {
	if p.l == nil {
		return
	}

	logged := val
	if campus.IsSensitiveKey(key) && val != "" {
		logged = campus.LogMaskVal
	}

	p.l.Debug(fmt.Sprintf("[HTTP %s Params] %s = %s", verb, key, logged), nil)
}

// NewParamsContext stashes p in ctx.
func NewParamsContext(ctx context.Context, p *Params) context.Context {
	return context.WithValue(ctx, campus.ParamsKey, p)
}

// ParamsFromContext retrieves the *Params stashed in ctx.
func ParamsFromContext(ctx context.Context) (*Params, error) {
	p, ok := ctx.Value(campus.ParamsKey).(*Params)
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: no *req.Params in context", campus.ErrMissingData)
	}

	return p, nil
}
