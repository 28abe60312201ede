package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MinPasswordLength is the fixed minimum password policy. The platform
// only ever rejected very short passwords; 8 is the documented choice.
const MinPasswordLength = 8

const (
	shortnameMinLength = 3
	shortnameMaxLength = 8
)

// ValidateEmail checks email syntax only. It says nothing about whether
// the address exists, and it runs no normalization.
func ValidateEmail(email string) error {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum length policy on the plaintext.
func ValidatePassword(password string) error {
	if err := validation.Validate(password,
		validation.Required,
		validation.RuneLength(MinPasswordLength, 0),
	); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateShortname enforces the public handle rules: 3-8 characters,
// alphanumeric only. Hyphens and punctuation are rejected.
func ValidateShortname(shortname string) error {
	if err := validation.Validate(shortname,
		validation.Required,
		validation.RuneLength(shortnameMinLength, shortnameMaxLength),
		is.Alphanumeric,
	); err != nil {
		return ErrInvalidShortname
	}
	return nil
}

// Validate runs all three credential rules on a signup payload, failing
// on the first violation. Field order matches the platform's historical
// behavior: email, then password, then shortname.
func (p SignupPayload) Validate() error {
	if err := ValidateEmail(p.Email); err != nil {
		return err
	}
	if err := ValidatePassword(p.Password); err != nil {
		return err
	}
	return ValidateShortname(p.Shortname)
}
