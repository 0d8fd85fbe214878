package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller. Every kind is request-scoped and
// never worth retrying.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuthorization
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindAuthentication:
		return "authentication"
	default:
		return "unknown"
	}
}

// Error is a user-visible failure with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error

	base *Error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches copies produced by Wrap and WithMessage against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.base != nil && e.base == t
}

// Wrap returns a copy of e carrying cause. errors.Is(result, e) still holds.
func (e *Error) Wrap(cause error) error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause, base: e.root()}
}

// WithMessage returns a copy of e with a more specific message. errors.Is(result, e) still holds.
func (e *Error) WithMessage(msg string) error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg, base: e.root()}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}
	return e
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Authorization(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

func Authentication(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or 0 when err is not an application error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return 0
}
