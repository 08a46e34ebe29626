package req

const (
	defaultMaxMemory         int64 = 32 << 20
	defaultMaxBytes          int64 = 1 << 20
	defaultMaxMultipartBytes int64 = 32 << 20
)

type paramsConfig struct {
	maxMemory         int64
	maxBytes          int64
	maxMultipartBytes int64
}

// A ParamsOptFn configures how NewParams reads a request.
type ParamsOptFn func(*paramsConfig)

// WithMaxMemory sets how many bytes of a multipart body are held in memory;
// file parts beyond it are stored in temporary files.
func WithMaxMemory(n int64) ParamsOptFn {
	return func(c *paramsConfig) {
		if n > 0 {
			c.maxMemory = n
		}
	}
}

// WithMaxBytes caps form and JSON bodies at n bytes.
func WithMaxBytes(n int64) ParamsOptFn {
	return func(c *paramsConfig) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithMaxMultipartBytes caps multipart bodies, files included, at n bytes.
func WithMaxMultipartBytes(n int64) ParamsOptFn {
	return func(c *paramsConfig) {
		if n > 0 {
			c.maxMultipartBytes = n
		}
	}
}
