package model

import (
	"time"

	"github.com/google/uuid"
)

// BorrowStatus is derived from the stored dates on every read.
// It is never persisted.
type BorrowStatus string

const (
	BorrowStatusBorrowing BorrowStatus = "borrowing"
	BorrowStatusOverdue   BorrowStatus = "overdue"
	BorrowStatusReturned  BorrowStatus = "returned"
)

// Borrow is a loan record. BorrowDate, DueDate and StaffID are immutable;
// ReturnDate is set exactly once, when the book comes back. Records are
// never deleted.
type Borrow struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ReaderID   uuid.UUID  `json:"reader_id" db:"reader_id"`
	BookID     uuid.UUID  `json:"book_id" db:"book_id"`
	BorrowDate time.Time  `json:"borrow_date" db:"borrow_date"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`
	StaffID    uuid.UUID  `json:"staff_id" db:"staff_id"`
}

// StatusAt derives the loan status as a pure function of the clock and the
// stored dates.
func StatusAt(now, dueDate time.Time, returnDate *time.Time) BorrowStatus {
	if returnDate != nil {
		return BorrowStatusReturned
	}
	if now.After(dueDate) {
		return BorrowStatusOverdue
	}
	return BorrowStatusBorrowing
}

// Status derives the loan status at the given time.
func (b *Borrow) Status(now time.Time) BorrowStatus {
	return StatusAt(now, b.DueDate, b.ReturnDate)
}

// IsOpen reports whether the loan is still outstanding.
func (b *Borrow) IsOpen() bool {
	return b.ReturnDate == nil
}

// ValidateDueDate enforces borrowDate <= dueDate <= borrowDate + maxDays.
func ValidateDueDate(borrowDate, dueDate time.Time, maxDays int) error {
	if dueDate.Before(borrowDate) {
		return ErrDueDateOutOfRange
	}
	if dueDate.After(borrowDate.AddDate(0, 0, maxDays)) {
		return ErrDueDateOutOfRange
	}
	return nil
}
