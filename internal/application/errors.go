package application

import (
	"errors"
	"strings"
)

// Messages are returned verbatim to clients; existing front-ends match on them.
const (
	MsgMissingCredentials = "You need to specify email and password in the body"
	MsgDuplicateEmail     = "Another user with the same email already exists"
	MsgWrongEmail         = "Wrong email"
	MsgWrongPassword      = "Wrong password"
	MsgMissingAuthHeader  = "Set the authoriation token in the header"
	MsgInvalidToken       = "Invalid token"
	MsgUserNotFound       = "User not found"
)

var (
	ErrDuplicateEmail    = errors.New(MsgDuplicateEmail)
	ErrWrongEmail        = &WrongCredentialsError{Message: MsgWrongEmail}
	ErrWrongPassword     = &WrongCredentialsError{Message: MsgWrongPassword}
	ErrMissingAuthHeader = errors.New(MsgMissingAuthHeader)
	ErrInvalidToken      = errors.New(MsgInvalidToken)
	ErrUserNotFound      = errors.New(MsgUserNotFound)
)

// ValidationError reports a request body or path parameter of the wrong shape.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(msg string) error { return &ValidationError{Message: msg} }

// WeakPasswordError carries the strength checker's suggestions.
type WeakPasswordError struct {
	Suggestions []string
}

func (e *WeakPasswordError) Error() string {
	return "Weak password - " + strings.Join(e.Suggestions, ", ")
}

// WrongCredentialsError covers both an unknown email and a wrong password.
type WrongCredentialsError struct {
	Message string
}

func (e *WrongCredentialsError) Error() string { return e.Message }

// IsClientError reports whether err is one of the errors above, i.e. the
// request itself was at fault rather than the store or another backend.
func IsClientError(err error) bool {
	var (
		ve *ValidationError
		we *WeakPasswordError
		ce *WrongCredentialsError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &we), errors.As(err, &ce):
		return true
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrMissingAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUserNotFound):
		return true
	}
	return false
}
