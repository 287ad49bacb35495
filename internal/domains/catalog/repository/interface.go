package repository

import (
	"context"

	"library-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines catalog data access operations
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetCoverURL(ctx context.Context, id uuid.UUID, coverURL *string) error
	ListGenres(ctx context.Context) ([]string, error)
}
