package repository

import (
	"context"

	"library-backend/internal/domains/account/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines account data access operations
type RepositoryInterface interface {
	CreateReader(ctx context.Context, reader *model.Reader) error
	GetReaderByID(ctx context.Context, id uuid.UUID) (*model.Reader, error)
	GetReaderByEmail(ctx context.Context, email string) (*model.Reader, error)
	GetReaderByCode(ctx context.Context, code string) (*model.Reader, error)
	UpdateReader(ctx context.Context, reader *model.Reader) error
	ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.Reader, int, error)

	CreateStaff(ctx context.Context, staff *model.Staff) error
	GetStaffByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	GetStaffByUsername(ctx context.Context, username string) (*model.Staff, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)
}
