package middleware

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// idemTTL is how long a response stays paired to its idempotency key.
const idemTTL = 24 * time.Hour

var (
	_ IdempotencyCacher = (*IdemResMap)(nil)
	_ IdempotencyCacher = IdemResRedis{}
)

// An IdempotencyCacher stores responses paired to idempotency keys.
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (IdemRes, bool)
	Set(ctx context.Context, key string, idemRes IdemRes)
}

// An IdemResMap stores IdemRes values in memory.
//
// Server restarts reset it, and processes do not share it;
// back Idempotent with IdemResRedis when running more than one.
type IdemResMap struct {
	mu   sync.Mutex
	vals map[string]idemResMapVal
	now  func() time.Time
}

type idemResMapVal struct {
	IdemRes

	at time.Time
}

// NewIdemResMap constructs an empty *IdemResMap.
func NewIdemResMap() *IdemResMap {
	return &IdemResMap{vals: make(map[string]idemResMapVal), now: time.Now}
}

// Get retrieves the IdemRes paired to key.
func (m *IdemResMap) Get(_ context.Context, key string) (IdemRes, bool) {
	if key == "" {
		return IdemRes{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vals[key]
	if !ok || m.now().Sub(v.at) > idemTTL {
		return IdemRes{}, false
	}

	return copyIdemRes(v.IdemRes), true
}

// Set pairs idemRes to key, evicting pairs older than a day.
func (m *IdemResMap) Set(_ context.Context, key string, idemRes IdemRes) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, v := range m.vals {
		if now.Sub(v.at) > idemTTL {
			delete(m.vals, k)
		}
	}

	at := now
	if v, ok := m.vals[key]; ok {
		at = v.at
	}

	m.vals[key] = idemResMapVal{IdemRes: copyIdemRes(idemRes), at: at}
}

// copyIdemRes keeps stored bodies apart from the buffer a handler is still writing to.
func copyIdemRes(ir IdemRes) IdemRes {
	if ir.Body != nil {
		ir.Body = bytes.NewBuffer(append([]byte(nil), ir.Body.Bytes()...))
	}

	return ir
}

// An IdemResRedis caches IdemRes values in Redis, shared by every process using it.
type IdemResRedis struct {
	client *redis.Client
}

// NewRedisCache constructs an IdemResRedis with the options passed in.
func NewRedisCache(opts *redis.Options) IdemResRedis {
	return IdemResRedis{client: redis.NewClient(opts)}
}

// Get retrieves the IdemRes paired to key.
func (i IdemResRedis) Get(ctx context.Context, key string) (IdemRes, bool) {
	b, err := i.client.Get(ctx, idemRedisKey(key)).Bytes()
	if err != nil {
		return IdemRes{}, false
	}

	ir := new(IdemRes)
	if err := ir.GobDecode(b); err != nil {
		return IdemRes{}, false
	}

	return *ir, true
}

// Set pairs idemRes to key for a day.
func (i IdemResRedis) Set(ctx context.Context, key string, idemRes IdemRes) {
	b, err := idemRes.GobEncode()
	if err != nil {
		return
	}

	i.client.Set(ctx, idemRedisKey(key), b, idemTTL)
}

// Close closes the Redis client.
func (i IdemResRedis) Close() error { return i.client.Close() }

func idemRedisKey(key string) string { return "campus:idempotency:" + key }
