package service

import "errors"

var (
	ErrValidation         = errors.New("validation") // 400
	ErrNotFound           = errors.New("not found")  // 404
	ErrConflict           = errors.New("conflict")   // 409
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

// Error pairs a category sentinel with the message shown to the client.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}
