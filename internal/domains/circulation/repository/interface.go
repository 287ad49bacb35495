package repository

import (
	"context"
	"time"

	"library-backend/internal/domains/circulation/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines circulation data access operations.
//
// CreateHold and CreateBorrow are the admission points: each runs in a
// single transaction that locks the book row, so the invariant
// (open borrows + unexpired holds <= copies_count) holds under
// concurrent requests.
type RepositoryInterface interface {
	// CreateHold places a hold for reader on book. Fails with
	// ErrNoCopiesAvailable when all copies are claimed, ErrDuplicateHold
	// when the reader already holds this book, ErrAlreadyBorrowing when
	// the reader has an open borrow of it.
	CreateHold(ctx context.Context, hold *model.HoldRequest) error

	// CreateBorrow checks out a book. When the reader has an unexpired
	// hold on the book the hold is consumed in the same transaction and
	// the capacity check is skipped (the hold already claims a copy).
	CreateBorrow(ctx context.Context, borrow *model.Borrow) error

	// CreateBorrowFromHold checks out a book against a specific hold.
	// The hold is deleted in the same transaction as the borrow insert;
	// if it no longer exists or has expired the whole checkout fails
	// with ErrHoldNotFound.
	CreateBorrowFromHold(ctx context.Context, borrow *model.Borrow, holdID uuid.UUID) error

	// ReturnBook stamps the return date on an open borrow.
	ReturnBook(ctx context.Context, borrowID uuid.UUID, returnedAt time.Time) (*model.Borrow, error)

	// GetHoldByID returns an unexpired hold by its identifier.
	GetHoldByID(ctx context.Context, id uuid.UUID, now time.Time) (*model.HoldRequest, error)
	// DeleteHold removes a reader's hold on a book. Returns the number
	// of rows removed; deleting a missing hold is not an error.
	DeleteHold(ctx context.Context, readerID, bookID uuid.UUID) (int64, error)
	ListHoldsByReader(ctx context.Context, readerID uuid.UUID, now time.Time) ([]model.HoldRequest, error)
	ListHolds(ctx context.Context, now time.Time, page, limit int) ([]model.HoldRequest, int, error)

	GetBorrow(ctx context.Context, id uuid.UUID) (*model.Borrow, error)
	ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) ([]model.Borrow, int, error)
	ListBorrowsByReader(ctx context.Context, readerID uuid.UUID) ([]model.Borrow, error)

	// CountActive returns open borrows and unexpired holds for a book.
	CountActive(ctx context.Context, bookID uuid.UUID, now time.Time) (borrows int, holds int, err error)
	GetCopiesCount(ctx context.Context, bookID uuid.UUID) (int, error)
	HasOpenBorrow(ctx context.Context, readerID, bookID uuid.UUID) (bool, error)
	HasHold(ctx context.Context, readerID, bookID uuid.UUID, now time.Time) (bool, error)

	// DeleteExpiredHolds sweeps holds whose expiry date has passed.
	DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error)
	// ListOverdue returns open borrows past their due date.
	ListOverdue(ctx context.Context, now time.Time) ([]model.Borrow, error)
}
