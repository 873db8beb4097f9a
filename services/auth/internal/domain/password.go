package domain

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const MinPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters")
	ErrPasswordNoUpper  = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordNoLower  = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordNoDigit  = errors.New("Password must contain at least one digit")
	ErrPasswordNoSymbol = errors.New("Password must contain at least one symbol")
)

// ValidatePassword reports the first rule p breaks, checked in the order
// length, uppercase, lowercase, digit, symbol. Length counts characters, not
// bytes.
func ValidatePassword(p string) error {
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return ErrPasswordNoUpper
	case !lower:
		return ErrPasswordNoLower
	case !digit:
		return ErrPasswordNoDigit
	case !symbol:
		return ErrPasswordNoSymbol
	}
	return nil
}
