package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/myschool/campus"
	"golang.org/x/time/rate"
)

const (
	defaultRate  rate.Limit = 5
	defaultBurst            = 20
	visitorTTL              = 60 * time.Minute
)

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	val   map[string]Visitor
	rate  rate.Limit
	burst int
	sync.Mutex
}

// NewVisitors constructs Visitors whose members are limited to 5 requests every second with bursts of up to 20.
func NewVisitors() *Visitors { return NewVisitorsWithLimit(defaultRate, defaultBurst) }

// NewVisitorsWithLimit constructs Visitors whose members are limited to r requests every second with bursts of up to b.
func NewVisitorsWithLimit(r rate.Limit, b int) *Visitors {
	return &Visitors{val: make(map[string]Visitor), rate: r, burst: b}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.rate, vs.burst)}
	}

	v.LastSeen = time.Now().UTC()
	vs.val[ip] = v
	return v
}

// Len is the number of visitors tracked.
func (vs *Visitors) Len() int {
	vs.Lock()
	defer vs.Unlock()

	return len(vs.val)
}

// cleanup deletes a Visitor from Visitors if they have not been seen in over an hour.
func (vs *Visitors) cleanup() {
	vs.Lock()
	defer vs.Unlock()
	for ip, v := range vs.val {
		if time.Since(v.LastSeen) > visitorTTL {
			delete(vs.val, ip)
		}
	}
}

// RateLimit encloses the Visitors map and serves the http.Handler,
// rejecting requests from visitors over their limit with 429 Too Many Requests.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
//
// If visitors is nil, NoopAdapter returns and this middleware does nothing.
func RateLimit(visitors *Visitors, rp ErrResponder) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !visitors.Fetch(GetIPAddress(r)).Limiter.Allow() {
				rp.Err(w, r, campus.NewTooManyRequests())
				return
			}

			visitors.cleanup()
			h.ServeHTTP(w, r)
		})
	}
}
