package campus

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

var (
	ErrBadConfig   = errors.New("bad config")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("conflict")
	ErrExists      = errors.New("already exists")
	ErrMissingData = errors.New("missing data")
	ErrNotExist    = errors.New("not exist")
	ErrNotValid    = errors.New("invalid")
	ErrRateLimited = errors.New("rate limited")
	ErrUnexpected  = errors.New("unexpected")
)

const (
	BadRequestName      = "BadRequestException"
	ConflictName        = "ConflictException"
	PageNotFoundName    = "PageNotFoundException"
	RuntimeName         = "RuntimeException"
	TooManyRequestsName = "TooManyRequestsException"
	UnprocessableName   = "UnprocessableEntityException"

	defaultBadRequestMsg      = "잘못된 요청입니다."
	defaultPageNotFoundMsg    = "페이지를 찾을 수 없습니다."
	defaultRuntimeMsg         = "요청을 처리하는 중에 문제가 발생했습니다."
	defaultTooManyRequestsMsg = "요청이 너무 많습니다. 잠시 후 다시 시도하세요."

	maxStackDepth = 32
)

// An Error is a failure that knows the HTTP status code it renders with.
//
// Construct one with NewBadRequest, NewPageNotFound or NewRuntime.
// The call stack at construction is kept for logging.
type Error struct {
	code  int
	name  string
	msg   string
	kind  error
	stack []uintptr
}

func newError(code int, name, msg string, kind error) *Error {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(3, pcs)

	return &Error{code: code, name: name, msg: msg, kind: kind, stack: pcs[:n]}
}

// NewBadRequest constructs a 400-class Error for input that is missing, malformed or invalid.
func NewBadRequest(msg string) *Error {
	if msg == "" {
		msg = defaultBadRequestMsg
	}

	return newError(http.StatusBadRequest, BadRequestName, msg, ErrBadRequest)
}

// NewConflict constructs a 409-class Error for a request that collides
// with one still being handled.
func NewConflict(msg string) *Error {
	return newError(http.StatusConflict, ConflictName, msg, ErrConflict)
}

// NewUnprocessable constructs a 422-class Error for a well-formed request
// that cannot be applied, e.g., an idempotency key reused for a different request.
func NewUnprocessable(msg string) *Error {
	return newError(http.StatusUnprocessableEntity, UnprocessableName, msg, ErrNotValid)
}

// NewPageNotFound constructs a 404-class Error.
// The first of msgs, if any, replaces the default message.
func NewPageNotFound(msgs ...string) *Error {
	msg := defaultPageNotFoundMsg
	if len(msgs) > 0 && msgs[0] != "" {
		msg = msgs[0]
	}

	return newError(http.StatusNotFound, PageNotFoundName, msg, ErrNotExist)
}

// NewRuntime constructs a 500-class Error.
func NewRuntime(msg string) *Error {
	if msg == "" {
		msg = defaultRuntimeMsg
	}

	return newError(http.StatusInternalServerError, RuntimeName, msg, ErrUnexpected)
}

// NewTooManyRequests constructs a 429-class Error for clients over their rate limit.
func NewTooManyRequests() *Error {
	return newError(http.StatusTooManyRequests, TooManyRequestsName, defaultTooManyRequestsMsg, ErrRateLimited)
}

func (e *Error) Error() string { return e.msg }

// Code is the HTTP status code e renders with.
func (e *Error) Code() int { return e.code }

// Msg is the user-facing message.
func (e *Error) Msg() string { return e.msg }

// Name identifies the class of e, e.g., BadRequestException.
func (e *Error) Name() string { return e.name }

// Unwrap exposes the sentinel matching the class of e,
// so errors.Is(e, ErrBadRequest) and the like hold.
func (e *Error) Unwrap() error { return e.kind }

// Stack formats the call stack captured when e was constructed,
// one "function\n\tfile:line" pair per frame.
func (e *Error) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return b.String()
}
