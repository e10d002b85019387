package user

import "errors"

var (
	ErrUnknownRole             = errors.New("unknown role")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNoEmployeeProfile       = errors.New("no employee profile linked to this account")
)
