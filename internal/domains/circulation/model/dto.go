package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// CreateHoldRequest is the reader-facing payload for placing a hold.
type CreateHoldRequest struct {
	BookID string `json:"book_id"`
}

func (r CreateHoldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, is.UUIDv4),
	)
}

// BorrowBookRequest is the staff-facing payload for checking out a book.
// DueDate is optional; when omitted the service applies the maximum loan
// period.
type BorrowBookRequest struct {
	ReaderID string     `json:"reader_id"`
	BookID   string     `json:"book_id"`
	DueDate  *time.Time `json:"due_date"`
}

func (r BorrowBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReaderID, validation.Required, is.UUIDv4),
		validation.Field(&r.BookID, validation.Required, is.UUIDv4),
	)
}

// AcceptHoldRequest converts a reader's hold into a borrow. The reader
// and book come from the hold itself.
type AcceptHoldRequest struct {
	HoldID  string     `json:"hold_id"`
	DueDate *time.Time `json:"due_date"`
}

func (r AcceptHoldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HoldID, validation.Required, is.UUIDv4),
	)
}

// ListBorrowsFilter narrows the staff borrow listing.
type ListBorrowsFilter struct {
	ReaderID *uuid.UUID
	BookID   *uuid.UUID
	Page     int
	Limit    int
}

// HoldDTO is the wire shape of a hold request.
type HoldDTO struct {
	ID         uuid.UUID `json:"id"`
	ReaderID   uuid.UUID `json:"reader_id"`
	BookID     uuid.UUID `json:"book_id"`
	HoldDate   time.Time `json:"hold_date"`
	ExpiryDate time.Time `json:"expiry_date"`
}

func (h *HoldRequest) ToDTO() HoldDTO {
	return HoldDTO{
		ID:         h.ID,
		ReaderID:   h.ReaderID,
		BookID:     h.BookID,
		HoldDate:   h.HoldDate,
		ExpiryDate: h.ExpiryDate,
	}
}

// BorrowDTO is the wire shape of a borrow record. Status is derived at
// serialization time and never stored.
type BorrowDTO struct {
	ID         uuid.UUID    `json:"id"`
	ReaderID   uuid.UUID    `json:"reader_id"`
	BookID     uuid.UUID    `json:"book_id"`
	StaffID    uuid.UUID    `json:"staff_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}

func (b *Borrow) ToDTO(now time.Time) BorrowDTO {
	return BorrowDTO{
		ID:         b.ID,
		ReaderID:   b.ReaderID,
		BookID:     b.BookID,
		StaffID:    b.StaffID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		Status:     b.Status(now),
	}
}
