package service

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/domains/circulation/model"
	"library-backend/internal/domains/circulation/repository"

	"github.com/google/uuid"
)

type CirculationService struct {
	repo        repository.RepositoryInterface
	holdTTL     time.Duration
	maxLoanDays int
}

// NewService creates a new circulation service
func NewService(repo repository.RepositoryInterface, holdTTL time.Duration, maxLoanDays int) ServiceInterface {
	return &CirculationService{
		repo:        repo,
		holdTTL:     holdTTL,
		maxLoanDays: maxLoanDays,
	}
}

// PlaceHold implements Service.PlaceHold
func (s *CirculationService) PlaceHold(ctx context.Context, readerID uuid.UUID, req model.CreateHoldRequest) (*model.HoldDTO, error) {
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return nil, model.ErrBookNotFound
	}

	hold := model.NewHoldRequest(readerID, bookID, s.holdTTL)
	if err := s.repo.CreateHold(ctx, hold); err != nil {
		return nil, err
	}

	dto := hold.ToDTO()
	return &dto, nil
}

// CancelHold implements Service.CancelHold. Cancelling a hold that does
// not exist is a no-op, so retries and races with the expiry sweep both
// succeed.
func (s *CirculationService) CancelHold(ctx context.Context, readerID, bookID uuid.UUID) error {
	if _, err := s.repo.DeleteHold(ctx, readerID, bookID); err != nil {
		return fmt.Errorf("failed to cancel hold: %w", err)
	}
	return nil
}

// HasHold implements Service.HasHold. Expired holds do not count.
func (s *CirculationService) HasHold(ctx context.Context, readerID, bookID uuid.UUID) (bool, error) {
	return s.repo.HasHold(ctx, readerID, bookID, time.Now())
}

// ListReaderHolds implements Service.ListReaderHolds
func (s *CirculationService) ListReaderHolds(ctx context.Context, readerID uuid.UUID) ([]model.HoldDTO, error) {
	holds, err := s.repo.ListHoldsByReader(ctx, readerID, time.Now())
	if err != nil {
		return nil, err
	}

	return toHoldDTOs(holds), nil
}

// ListHolds implements Service.ListHolds
func (s *CirculationService) ListHolds(ctx context.Context, page, limit int) ([]model.HoldDTO, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	holds, total, err := s.repo.ListHolds(ctx, time.Now(), page, limit)
	if err != nil {
		return nil, 0, err
	}

	return toHoldDTOs(holds), total, nil
}

// ExpireHolds implements Service.ExpireHolds
func (s *CirculationService) ExpireHolds(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredHolds(ctx, time.Now())
}

func toHoldDTOs(holds []model.HoldRequest) []model.HoldDTO {
	dtos := make([]model.HoldDTO, 0, len(holds))
	for i := range holds {
		dtos = append(dtos, holds[i].ToDTO())
	}
	return dtos
}
