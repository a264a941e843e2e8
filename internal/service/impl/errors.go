package impl

import "errors"

var (
	ErrEmptyPassword      = errors.New("empty password")
	ErrEmptyCredential    = errors.New("email and password required")
	ErrEmptyToken         = errors.New("token is required")
	ErrEmptyEmail         = errors.New("empty email")
	ErrEmptyName          = errors.New("first and last name required")
	ErrPasswordLength     = errors.New("password too short")
	ErrInvalidDate        = errors.New("dateOfBirth must be YYYY-MM-DD")
	ErrInvalidTokenLength = errors.New("token length must be positive")
)
