package session

import "errors"

var (
	ErrNotValid = errors.New("not valid")
	ErrNoValue  = errors.New("no value")
)
