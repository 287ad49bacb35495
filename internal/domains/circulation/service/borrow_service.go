package service

import (
	"context"
	"time"

	"library-backend/internal/domains/circulation/model"

	"github.com/google/uuid"
)

// BorrowBook implements Service.BorrowBook
func (s *CirculationService) BorrowBook(ctx context.Context, staffID uuid.UUID, req model.BorrowBookRequest) (*model.BorrowDTO, error) {
	readerID, err := uuid.Parse(req.ReaderID)
	if err != nil {
		return nil, model.ErrReaderNotFound
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return nil, model.ErrBookNotFound
	}

	now := time.Now()
	borrow, err := s.newBorrow(staffID, readerID, bookID, req.DueDate, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateBorrow(ctx, borrow); err != nil {
		return nil, err
	}

	dto := borrow.ToDTO(now)
	return &dto, nil
}

// AcceptHold implements Service.AcceptHold. The hold names the reader
// and the book; the checkout deletes it in the same transaction as the
// borrow insert, so a hold that expires or is cancelled in between
// fails with ErrHoldNotFound instead of becoming a plain borrow.
func (s *CirculationService) AcceptHold(ctx context.Context, staffID uuid.UUID, req model.AcceptHoldRequest) (*model.BorrowDTO, error) {
	holdID, err := uuid.Parse(req.HoldID)
	if err != nil {
		return nil, model.ErrHoldNotFound
	}

	now := time.Now()
	hold, err := s.repo.GetHoldByID(ctx, holdID, now)
	if err != nil {
		return nil, err
	}

	borrow, err := s.newBorrow(staffID, hold.ReaderID, hold.BookID, req.DueDate, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateBorrowFromHold(ctx, borrow, hold.ID); err != nil {
		return nil, err
	}

	dto := borrow.ToDTO(now)
	return &dto, nil
}

func (s *CirculationService) newBorrow(staffID, readerID, bookID uuid.UUID, dueDate *time.Time, now time.Time) (*model.Borrow, error) {
	due := now.AddDate(0, 0, s.maxLoanDays)
	if dueDate != nil {
		due = *dueDate
	}
	if err := model.ValidateDueDate(now, due, s.maxLoanDays); err != nil {
		return nil, err
	}

	return &model.Borrow{
		ID:         uuid.New(),
		ReaderID:   readerID,
		BookID:     bookID,
		StaffID:    staffID,
		BorrowDate: now,
		DueDate:    due,
	}, nil
}

// ReturnBook implements Service.ReturnBook
func (s *CirculationService) ReturnBook(ctx context.Context, borrowID uuid.UUID) (*model.BorrowDTO, error) {
	now := time.Now()

	borrow, err := s.repo.ReturnBook(ctx, borrowID, now)
	if err != nil {
		return nil, err
	}

	dto := borrow.ToDTO(now)
	return &dto, nil
}

// GetBorrow implements Service.GetBorrow
func (s *CirculationService) GetBorrow(ctx context.Context, borrowID uuid.UUID) (*model.BorrowDTO, error) {
	borrow, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return nil, err
	}

	dto := borrow.ToDTO(time.Now())
	return &dto, nil
}

// ListBorrows implements Service.ListBorrows
func (s *CirculationService) ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) ([]model.BorrowDTO, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	borrows, total, err := s.repo.ListBorrows(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return toBorrowDTOs(borrows, time.Now()), total, nil
}

// GetReaderHistory implements Service.GetReaderHistory
func (s *CirculationService) GetReaderHistory(ctx context.Context, readerID uuid.UUID) ([]model.BorrowDTO, error) {
	borrows, err := s.repo.ListBorrowsByReader(ctx, readerID)
	if err != nil {
		return nil, err
	}

	return toBorrowDTOs(borrows, time.Now()), nil
}

// ListOverdueBorrows implements Service.ListOverdueBorrows
func (s *CirculationService) ListOverdueBorrows(ctx context.Context) ([]model.BorrowDTO, error) {
	now := time.Now()

	borrows, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	return toBorrowDTOs(borrows, now), nil
}

func toBorrowDTOs(borrows []model.Borrow, now time.Time) []model.BorrowDTO {
	dtos := make([]model.BorrowDTO, 0, len(borrows))
	for i := range borrows {
		dtos = append(dtos, borrows[i].ToDTO(now))
	}
	return dtos
}
