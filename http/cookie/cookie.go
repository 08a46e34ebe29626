// Package cookie reads and writes signed, and optionally encrypted, cookies.
package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/myschool/campus"
)

// ErrNoCookie is returned when the requested cookie is not set.
var ErrNoCookie = errors.New("no cookie")

// A Jar encodes cookie values so clients cannot read or tamper with them.
type Jar struct {
	codec  *securecookie.SecureCookie
	domain string
	secure bool
	maxAge int
}

// A Config provides the values a Jar needs.
type Config struct {
	Env campus.Environment

	// Key signs cookie values; it is required.
	Key []byte

	// EncryptKey encrypts cookie values when set; it must be 16, 24 or 32 bytes.
	EncryptKey []byte

	// Domain scopes cookies; leave empty for the host of the request.
	Domain string

	// MaxAge is the default number of seconds a cookie lives.
	MaxAge int
}

// NewJar constructs a Jar from cfg.
func NewJar(cfg Config) (*Jar, error) {
	if len(cfg.Key) == 0 {
		return nil, fmt.Errorf("%w: cookie key cannot be empty", campus.ErrBadConfig)
	}

	switch len(cfg.EncryptKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: cookie encrypt key must be 16, 24 or 32 bytes", campus.ErrBadConfig)
	}

	var block []byte
	if len(cfg.EncryptKey) > 0 {
		block = cfg.EncryptKey
	}

	codec := securecookie.New(cfg.Key, block)
	if cfg.MaxAge > 0 {
		codec.MaxAge(cfg.MaxAge)
	}

	return &Jar{
		codec:  codec,
		domain: cfg.Domain,
		secure: !(cfg.Env.IsDevelopment() || cfg.Env.IsTesting()),
		maxAge: cfg.MaxAge,
	}, nil
}

// Set encodes val under name and writes the cookie to w.
func (j *Jar) Set(w http.ResponseWriter, name string, val any) error {
	encoded, err := j.codec.Encode(name, val)
	if err != nil {
		return fmt.Errorf("%w: encoding cookie %s: %s", campus.ErrUnexpected, name, err)
	}

	c := &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		Domain:   j.domain,
		MaxAge:   j.maxAge,
		Secure:   j.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if j.maxAge > 0 {
		c.Expires = time.Now().Add(time.Duration(j.maxAge) * time.Second)
	}

	http.SetCookie(w, c)

	return nil
}

// Get decodes the cookie name sent with r into dst.
//
// If the cookie is absent, ErrNoCookie returns;
// if it was tampered with or expired, campus.ErrNotValid.
func (j *Jar) Get(r *http.Request, name string, dst any) error {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return fmt.Errorf("%w: %s", ErrNoCookie, name)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", campus.ErrNotValid, err)
	}

	if err := j.codec.Decode(name, c.Value, dst); err != nil {
		return fmt.Errorf("%w: cookie %s: %s", campus.ErrNotValid, name, err)
	}

	return nil
}

// Delete expires the cookie name.
func (j *Jar) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   j.secure,
		HttpOnly: true,
	})
}
