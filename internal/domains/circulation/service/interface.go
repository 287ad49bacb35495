package service

import (
	"context"

	"library-backend/internal/domains/circulation/model"

	"github.com/google/uuid"
)

// ServiceInterface defines circulation business operations
type ServiceInterface interface {
	// Holds (reader-facing)
	PlaceHold(ctx context.Context, readerID uuid.UUID, req model.CreateHoldRequest) (*model.HoldDTO, error)
	CancelHold(ctx context.Context, readerID, bookID uuid.UUID) error
	HasHold(ctx context.Context, readerID, bookID uuid.UUID) (bool, error)
	ListReaderHolds(ctx context.Context, readerID uuid.UUID) ([]model.HoldDTO, error)
	ListHolds(ctx context.Context, page, limit int) ([]model.HoldDTO, int, error)

	// Borrows (staff-facing)
	BorrowBook(ctx context.Context, staffID uuid.UUID, req model.BorrowBookRequest) (*model.BorrowDTO, error)
	AcceptHold(ctx context.Context, staffID uuid.UUID, req model.AcceptHoldRequest) (*model.BorrowDTO, error)
	ReturnBook(ctx context.Context, borrowID uuid.UUID) (*model.BorrowDTO, error)
	GetBorrow(ctx context.Context, borrowID uuid.UUID) (*model.BorrowDTO, error)
	ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) ([]model.BorrowDTO, int, error)
	GetReaderHistory(ctx context.Context, readerID uuid.UUID) ([]model.BorrowDTO, error)

	// Status and capacity (consumed by the catalog domain)
	ResolveStatus(ctx context.Context, bookID uuid.UUID, viewer *uuid.UUID) (model.BookStatus, error)
	GetAvailability(ctx context.Context, bookID uuid.UUID) (*model.Availability, error)
	CanReduceCopiesTo(ctx context.Context, bookID uuid.UUID, newCount int) error

	// Background maintenance (consumed by the worker)
	ExpireHolds(ctx context.Context) (int64, error)
	ListOverdueBorrows(ctx context.Context) ([]model.BorrowDTO, error)
}
