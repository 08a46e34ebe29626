package campus

type Key string

const (
	// IpAddrKey stashes the IP address of an HTTP request being handled by campus.
	IpAddrKey Key = "IpAddrKey"

	// ParamsKey stashes the normalized parameters of an HTTP request.
	ParamsKey Key = "ParamsKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "campus context key: " + string(k)
}
