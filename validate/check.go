package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/myschool/campus"
)

// A Check is a deferred validation, see Run.
type Check func() error

// Run executes checks in order and returns the first failure.
// Checks after a failure are not executed.
func Run(checks ...Check) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}

// Value asserts content is not blank once trimmed.
func Value(content, msg string) error {
	if strings.TrimSpace(content) == "" {
		return campus.NewBadRequest(msg)
	}

	return nil
}

// MaxLength asserts content is present and holds no more than n characters.
//
// Characters are counted on content as given, including surrounding whitespace.
func MaxLength(content string, n int, msg string) error {
	if err := Value(content, msg); err != nil {
		return err
	}

	if utf8.RuneCountInString(content) > n {
		return campus.NewBadRequest(msg)
	}

	return nil
}

// MinLength asserts content is present and holds at least n characters.
//
// Characters are counted on content as given, including surrounding whitespace.
func MinLength(content string, n int, msg string) error {
	if err := Value(content, msg); err != nil {
		return err
	}

	if utf8.RuneCountInString(content) < n {
		return campus.NewBadRequest(msg)
	}

	return nil
}

// CompareTo asserts origin and compare are identical once trimmed.
// Two blank values are identical.
func CompareTo(origin, compare, msg string) error {
	if strings.TrimSpace(origin) != strings.TrimSpace(compare) {
		return campus.NewBadRequest(msg)
	}

	return nil
}

// Field asserts content is present and, once trimmed, matches re.
func Field(content, msg string, re *regexp.Regexp) error {
	src := strings.TrimSpace(content)
	if src == "" || !re.MatchString(src) {
		return campus.NewBadRequest(msg)
	}

	return nil
}
