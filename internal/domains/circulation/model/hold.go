package model

import (
	"time"

	"github.com/google/uuid"
)

// HoldRequest reserves one copy of a book for a reader ahead of borrowing.
// A hold is never updated: it is created, then destroyed by cancellation,
// by promotion into a Borrow, or by expiry.
type HoldRequest struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ReaderID   uuid.UUID `json:"reader_id" db:"reader_id"`
	BookID     uuid.UUID `json:"book_id" db:"book_id"`
	HoldDate   time.Time `json:"hold_date" db:"hold_date"`
	ExpiryDate time.Time `json:"expiry_date" db:"expiry_date"`
}

// NewHoldRequest creates a hold expiring ttl after now.
func NewHoldRequest(readerID, bookID uuid.UUID, ttl time.Duration) *HoldRequest {
	now := time.Now()
	return &HoldRequest{
		ID:         uuid.New(),
		ReaderID:   readerID,
		BookID:     bookID,
		HoldDate:   now,
		ExpiryDate: now.Add(ttl),
	}
}

// IsExpired reports whether the hold is past its expiry at the given time.
// Every read and admission path treats an expired hold as absent; the
// worker sweep merely deletes the rows afterwards.
func (h *HoldRequest) IsExpired(now time.Time) bool {
	return !now.Before(h.ExpiryDate)
}
