// internal/app/system/schemas/rules.go
package schemas

import (
	"reflect"
	"regexp"

	validation "github.com/jellydator/validation"

	"github.com/openscout/badgefinder/internal/domain/errs"
)

var (
	hexID24 = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	// Word chars/hyphens/dots in the local part, dot-separated domain
	// labels, 1-7 letter TLD. Matches the entity's email rule so wire
	// validation and in-memory validation agree.
	emailRx = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{1,7}$`)
	digitRx = regexp.MustCompile(`\d`)
)

// FieldCheck validates one wire-shaped value, returning the bound error kind
// on failure.
type FieldCheck func(v any) error

// objectID requires a 24-character hexadecimal string. Which "not found"
// kind an id failure maps to depends on which id the field names.
func objectID(kind func() *errs.Error) FieldCheck {
	return func(v any) error {
		if err := validation.Validate(v, validation.Required, validation.Match(hexID24)); err != nil {
			return kind()
		}
		return nil
	}
}

func nonEmptyString(kind func() *errs.Error) FieldCheck {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return kind()
		}
		if err := validation.Validate(s, validation.Required); err != nil {
			return kind()
		}
		return nil
	}
}

func emailAddress() FieldCheck {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return errs.InvalidEmail()
		}
		if err := validation.Validate(s, validation.Required, validation.Match(emailRx)); err != nil {
			return errs.InvalidEmail()
		}
		return nil
	}
}

func password() FieldCheck {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return errs.InvalidPassword()
		}
		if err := validation.Validate(s,
			validation.Required,
			validation.Length(8, 0),
			validation.Match(digitRx),
		); err != nil {
			return errs.InvalidPassword()
		}
		return nil
	}
}

func array(kind func() *errs.Error) FieldCheck {
	return func(v any) error {
		if v == nil {
			return kind()
		}
		k := reflect.ValueOf(v).Kind()
		if k != reflect.Slice && k != reflect.Array {
			return kind()
		}
		return nil
	}
}

func boolean() FieldCheck {
	return func(v any) error {
		if _, ok := v.(bool); !ok {
			return errs.New(errs.KindDomain, "completed must be a boolean")
		}
		return nil
	}
}
