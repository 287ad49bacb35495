package service

import (
	"context"

	"library-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

// ServiceInterface defines catalog business operations. Viewer is the
// authenticated reader looking at the catalog, nil for anonymous
// requests; staff views pass staffView=true and get raw availability
// counts instead of a resolved status.
type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error)
	GetBook(ctx context.Context, id uuid.UUID, viewer *uuid.UUID, staffView bool) (*model.BookResponse, error)
	ListBooks(ctx context.Context, q model.ListBooksQuery, viewer *uuid.UUID, staffView bool) ([]model.BookResponse, int, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	ListGenres(ctx context.Context) ([]string, error)

	UploadCover(ctx context.Context, id uuid.UUID, data []byte) error

	// Worker-side cover pipeline
	ProcessCover(ctx context.Context, id uuid.UUID) error
	DeleteCover(ctx context.Context, id uuid.UUID) error
}
