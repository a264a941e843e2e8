package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrChildNotFound      = errors.New("child not found")
	ErrParentNotFound     = errors.New("parent not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrEmailTaken         = errors.New("email already registered")
)
