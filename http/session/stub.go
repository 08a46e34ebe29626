package session

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"github.com/myschool/campus"
)

var _ gorilla.Store = (*Stub)(nil)

// A Stub is an in-memory gorilla.Store holding a single session, for use in tests.
type Stub struct {
	s *gorilla.Session
}

// NewStub constructs a Stub whose session holds vals.
func NewStub(vals map[string]any) *Stub {
	s := new(Stub)
	s.s = gorilla.NewSession(s, "stub")
	s.s.Options = &gorilla.Options{Path: "/"}
	for k, v := range vals {
		s.s.Values[k] = v
	}

	return s
}

// Service wraps st in a Service.
func (st *Stub) Service() Service {
	svc, _ := NewStoreService(
		Config{Env: campus.Testing, SessionName: "stub"},
		withStore(st),
	)

	return svc
}

// GetSession returns the single session st holds.
func (st *Stub) GetSession(r *http.Request) (Session, error) { return Session{st.s}, nil }

func (st *Stub) Get(r *http.Request, name string) (*gorilla.Session, error) { return st.s, nil }
func (st *Stub) New(r *http.Request, name string) (*gorilla.Session, error) { return st.s, nil }
func (st *Stub) Save(r *http.Request, w http.ResponseWriter, sess *gorilla.Session) error {
	return nil
}
