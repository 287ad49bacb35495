package model

import "errors"

var (
	ErrReaderNotFound        = errors.New("reader not found")
	ErrStaffNotFound         = errors.New("staff member not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid or expired token")
)
