package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

func (t Type) Valid() bool {
	return t == TypeAccess || t == TypeRefresh
}

// Claims is the full claim set carried by every token this system issues.
type Claims struct {
	Role string `json:"role"`
	Type Type   `json:"type"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is the only failure callers outside the auth service need
// to look at. The wrapped variants below say why, for logs and tests.
var ErrInvalidToken = errors.New("invalid or expired token")

var (
	ErrRevoked   = &reasonError{reason: "revoked"}
	ErrMalformed = &reasonError{reason: "malformed"}
	ErrExpired   = &reasonError{reason: "expired"}
	ErrWrongType = &reasonError{reason: "wrong_type"}
)

type reasonError struct {
	reason string
}

func (e *reasonError) Error() string { return "token " + e.reason }

func (e *reasonError) Unwrap() error { return ErrInvalidToken }

// Reason returns a short machine-readable cause for a token rejection, or ""
// when err is not a token error.
func Reason(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	return ""
}
