package model

import "errors"

// Not-found errors: a referenced record does not exist. An expired hold
// counts as missing everywhere.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrReaderNotFound = errors.New("reader not found")
	ErrStaffNotFound  = errors.New("staff not found")
	ErrHoldNotFound   = errors.New("hold request not found")
	ErrBorrowNotFound = errors.New("borrow record not found")
)

// Conflict errors: the operation would violate a circulation invariant.
var (
	ErrDuplicateHold     = errors.New("reader already has a hold on this book")
	ErrAlreadyBorrowing  = errors.New("reader already has an outstanding borrow of this book")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrAlreadyReturned   = errors.New("borrow has already been returned")
	ErrCopiesBelowInUse  = errors.New("copies count cannot drop below borrowed and held total")
)

// Validation errors.
var (
	ErrDueDateOutOfRange = errors.New("due date must be between the borrow date and 30 days after it")
)
