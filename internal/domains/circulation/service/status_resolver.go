package service

import (
	"context"
	"time"

	"library-backend/internal/domains/circulation/model"

	"github.com/google/uuid"
)

// ResolveStatus implements Service.ResolveStatus.
//
// Resolution order for a signed-in reader: their own open borrow wins,
// then their own hold, then book-wide availability. Anonymous viewers
// only see availability. All checks compare against the same instant so
// an expired hold flips every view at once.
func (s *CirculationService) ResolveStatus(ctx context.Context, bookID uuid.UUID, viewer *uuid.UUID) (model.BookStatus, error) {
	now := time.Now()

	if viewer != nil {
		borrowing, err := s.repo.HasOpenBorrow(ctx, *viewer, bookID)
		if err != nil {
			return "", err
		}
		if borrowing {
			return model.BookStatusBorrowing, nil
		}

		holding, err := s.repo.HasHold(ctx, *viewer, bookID, now)
		if err != nil {
			return "", err
		}
		if holding {
			return model.BookStatusHolding, nil
		}
	}

	avail, err := s.availabilityAt(ctx, bookID, now)
	if err != nil {
		return "", err
	}
	if avail.Free() <= 0 {
		return model.BookStatusUnavailable, nil
	}

	return model.BookStatusAvailable, nil
}

// GetAvailability implements Service.GetAvailability
func (s *CirculationService) GetAvailability(ctx context.Context, bookID uuid.UUID) (*model.Availability, error) {
	return s.availabilityAt(ctx, bookID, time.Now())
}

func (s *CirculationService) availabilityAt(ctx context.Context, bookID uuid.UUID, now time.Time) (*model.Availability, error) {
	copies, err := s.repo.GetCopiesCount(ctx, bookID)
	if err != nil {
		return nil, err
	}

	borrows, holds, err := s.repo.CountActive(ctx, bookID, now)
	if err != nil {
		return nil, err
	}

	return &model.Availability{
		CopiesCount:   copies,
		ActiveBorrows: borrows,
		ActiveHolds:   holds,
	}, nil
}

// CanReduceCopiesTo implements Service.CanReduceCopiesTo. The catalog
// calls this before shrinking a book's copies count: the new count must
// still cover every open borrow and unexpired hold.
func (s *CirculationService) CanReduceCopiesTo(ctx context.Context, bookID uuid.UUID, newCount int) error {
	borrows, holds, err := s.repo.CountActive(ctx, bookID, time.Now())
	if err != nil {
		return err
	}

	if newCount < borrows+holds {
		return model.ErrCopiesBelowInUse
	}

	return nil
}
