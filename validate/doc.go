/*
Package validate checks user input and reports failures as client errors.

Every check either returns nil or a [*campus.Error] built with [campus.NewBadRequest]
carrying the message the caller supplied, so a handler can hand a failure straight to the responder:

	if err := validate.Run(
		func() error { return validate.Value(name, "이름을 입력하세요.") },
		func() error { return validate.MaxLength(name, 10, "이름은 최대 10자까지 가능합니다.") },
		func() error { return validate.Kor(name, "이름은 한글만 입력 가능합니다.") },
	); err != nil {
		p.Err(w, r, err)
		return
	}

All checks first require a value that is not blank once surrounding whitespace is trimmed.

Struct validates tagged structs with github.com/go-playground/validator/v10,
exposing the same character classes as the tags num, eng, kor, engnum, kornum, cellphone, telphone and phone.
*/
package validate
