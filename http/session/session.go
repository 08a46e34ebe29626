package session

import (
	"context"
	"fmt"
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"github.com/myschool/campus"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	ResetExpiry(w http.ResponseWriter, r *http.Request) error
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// A Session provides all functionality for managing a session.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

// NewSession wraps g.
func NewSession(g *gorilla.Session) Session { return Session{s: g} }

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// GetString retrieves a string value from the session.
// If key is not set, ErrNoValue returns; if it is not a string, ErrNotValid.
func (s Session) GetString(key string) (string, error) {
	raw, ok := s.s.Values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoValue, key)
	}

	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrNotValid, key, raw)
	}

	return val, nil
}

// ResetExpiry resets the expiration of the session by saving it.
func (s Session) ResetExpiry(w http.ResponseWriter, r *http.Request) error {
	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// NewContext stashes s in ctx.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, campus.SessionKey, s)
}

// FromContext retrieves the Session stashed in ctx.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(campus.SessionKey).(Session)
	if !ok || s.s == nil {
		return Session{}, fmt.Errorf("%w: no session in context", campus.ErrMissingData)
	}

	return s, nil
}
