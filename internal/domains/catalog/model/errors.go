package model

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrISBNAlreadyExists = errors.New("a book with this ISBN already exists")
	ErrBookHasClaims     = errors.New("book still has open borrows or holds")
)
