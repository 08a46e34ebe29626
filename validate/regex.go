package validate

import (
	"regexp"
	"strings"

	"github.com/myschool/campus"
)

var (
	NumPattern       = regexp.MustCompile(`^[0-9]*$`)
	EngPattern       = regexp.MustCompile(`^[a-zA-Z]*$`)
	KorPattern       = regexp.MustCompile(`^[ㄱ-ㅎ가-힣]*$`)
	EngNumPattern    = regexp.MustCompile(`^[a-zA-Z0-9]*$`)
	KorNumPattern    = regexp.MustCompile(`^[ㄱ-ㅎ가-힣0-9]*$`)
	EmailPattern     = regexp.MustCompile(`(?i)^([\w-]+(?:\.[\w-]+)*)@((?:[\w-]+\.)*\w[\w-]{0,66})\.([a-z]{2,6}(?:\.[a-z]{2})?)$`)
	CellphonePattern = regexp.MustCompile(`^01(?:0|1|[6-9])(?:\d{3}|\d{4})\d{4}$`)
	TelphonePattern  = regexp.MustCompile(`^\d{2,3}\d{3,4}\d{4}$`)
)

// Num asserts content holds digits only.
func Num(content, msg string) error { return Field(content, msg, NumPattern) }

// Eng asserts content holds ASCII letters only.
func Eng(content, msg string) error { return Field(content, msg, EngPattern) }

// Kor asserts content holds Hangul syllables or jamo only.
func Kor(content, msg string) error { return Field(content, msg, KorPattern) }

// EngNum asserts content holds ASCII letters and digits only.
func EngNum(content, msg string) error { return Field(content, msg, EngNumPattern) }

// KorNum asserts content holds Hangul and digits only.
func KorNum(content, msg string) error { return Field(content, msg, KorNumPattern) }

// Email asserts content looks like local@domain.tld, ignoring case.
func Email(content, msg string) error { return Field(content, msg, EmailPattern) }

// Cellphone asserts content is a Korean mobile number without separators, e.g., 01012345678.
func Cellphone(content, msg string) error { return Field(content, msg, CellphonePattern) }

// Telphone asserts content is a Korean landline number without separators, e.g., 0212345678.
func Telphone(content, msg string) error { return Field(content, msg, TelphonePattern) }

// Phone asserts content is either a Cellphone or a Telphone number.
func Phone(content, msg string) error {
	if !isPhone(strings.TrimSpace(content)) {
		return campus.NewBadRequest(msg)
	}

	return nil
}

func isPhone(src string) bool {
	return src != "" && (CellphonePattern.MatchString(src) || TelphonePattern.MatchString(src))
}
