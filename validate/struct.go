package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	v10 "github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/myschool/campus"
)

// msgTag names the struct tag holding the message to report when a field fails validation.
const msgTag = "msg"

var patternTags = []struct {
	tag  string
	re   *regexp.Regexp
	text string
}{
	{"num", NumPattern, "{0} must contain digits only"},
	{"eng", EngPattern, "{0} must contain English letters only"},
	{"kor", KorPattern, "{0} must contain Hangul only"},
	{"engnum", EngNumPattern, "{0} must contain English letters and digits only"},
	{"kornum", KorNumPattern, "{0} must contain Hangul and digits only"},
	{"cellphone", CellphonePattern, "{0} must be a mobile phone number"},
	{"telphone", TelphonePattern, "{0} must be a landline phone number"},
}

type structValidator struct {
	valid *v10.Validate
	trans ut.Translator
}

var (
	defaultValidator     *structValidator
	defaultValidatorErr  error
	defaultValidatorOnce sync.Once
)

// Struct checks the fields of structPtr against their "validate" struct tags.
//
// The first failing field is reported as a client error.
// Its message is the field's "msg" struct tag when set,
// otherwise a translation of the failed rule naming the field.
//
// An error that is not a validation failure, such as passing a non-struct,
// is returned wrapped with [campus.ErrUnexpected].
func Struct(structPtr any) error {
	defaultValidatorOnce.Do(func() {
		defaultValidator, defaultValidatorErr = newStructValidator()
	})
	if defaultValidatorErr != nil {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, defaultValidatorErr)
	}

	return defaultValidator.validate(structPtr)
}

func newStructValidator() (*structValidator, error) {
	v := v10.New(v10.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, fmt.Errorf("%w: translator en not found", campus.ErrBadConfig)
	}

	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	for _, pt := range patternTags {
		re := pt.re
		if err := v.RegisterValidation(pt.tag, func(fl v10.FieldLevel) bool {
			src := strings.TrimSpace(fl.Field().String())
			return src != "" && re.MatchString(src)
		}); err != nil {
			return nil, err
		}

		if err := registerTranslation(v, trans, pt.tag, pt.text); err != nil {
			return nil, err
		}
	}

	if err := v.RegisterValidation("phone", func(fl v10.FieldLevel) bool {
		return isPhone(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return nil, err
	}

	if err := registerTranslation(v, trans, "phone", "{0} must be a phone number"); err != nil {
		return nil, err
	}

	return &structValidator{valid: v, trans: trans}, nil
}

func registerTranslation(v *v10.Validate, trans ut.Translator, tag, text string) error {
	return v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, false)
		},
		func(ut ut.Translator, fe v10.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}

			return t
		},
	)
}

func (sv *structValidator) validate(structPtr any) error {
	err := sv.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	fe := errs[0]
	if msg := fieldMsg(structPtr, fe.StructNamespace()); msg != "" {
		return campus.NewBadRequest(msg)
	}

	return campus.NewBadRequest(fe.Translate(sv.trans))
}

// fieldMsg looks up the "msg" struct tag for the field at namespace, e.g., Professor.Name.
func fieldMsg(structPtr any, namespace string) string {
	t := reflect.TypeOf(structPtr)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return ""
	}

	fields := parts[1:]
	for i, name := range fields {
		if t.Kind() != reflect.Struct {
			return ""
		}

		f, ok := t.FieldByName(name)
		if !ok {
			return ""
		}

		if i == len(fields)-1 {
			return f.Tag.Get(msgTag)
		}

		t = f.Type
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}

	return ""
}
