package service

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyMember      = errors.New("user is already a member of this group")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrGroupPrivate       = errors.New("group is private")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrStorageUnavailable = errors.New("storage not configured")
)

// invalid wraps ErrValidation with a user-facing message.
func invalid(msg string) error {
	return errors.WithMessage(ErrValidation, msg)
}

// forbidden wraps ErrForbidden with a user-facing message.
func forbidden(msg string) error {
	return errors.WithMessage(ErrForbidden, msg)
}

// translate maps repository errors onto service sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.WithMessage(ErrNotFound, what+" not found")
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyMember
	default:
		return errors.Wrap(err, what)
	}
}

// Message returns the user-facing text of err. Wrapped sentinels render as
// "<context>: <sentinel>", so the outermost context is preferred.
func Message(err error) string {
	if err == nil {
		return ""
	}
	type causer interface{ Cause() error }
	if c, ok := err.(causer); ok {
		msg := err.Error()
		if cause := c.Cause(); cause != nil {
			if suffix := ": " + cause.Error(); len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
				return msg[:len(msg)-len(suffix)]
			}
		}
		return msg
	}
	return err.Error()
}
