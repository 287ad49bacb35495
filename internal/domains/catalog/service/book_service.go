package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"library-backend/internal/domains/catalog/model"
	"library-backend/internal/domains/catalog/repository"
	circulation "library-backend/internal/domains/circulation/service"
	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

const (
	bookCacheTTL    = 10 * time.Minute
	bookCachePrefix = "book:"
)

type BookService struct {
	repo        repository.RepositoryInterface
	circulation circulation.ServiceInterface
	cache       cache.Cache
	storage     *storage.MinIOStorage
	images      *storage.ImageProcessor
	queue       *asynq.Client
}

// NewService creates a new catalog service
func NewService(
	repo repository.RepositoryInterface,
	circulationService circulation.ServiceInterface,
	cacheClient cache.Cache,
	minioStorage *storage.MinIOStorage,
	imageProcessor *storage.ImageProcessor,
	queueClient *asynq.Client,
) ServiceInterface {
	return &BookService{
		repo:        repo,
		circulation: circulationService,
		cache:       cacheClient,
		storage:     minioStorage,
		images:      imageProcessor,
		queue:       queueClient,
	}
}

// CreateBook implements Service.CreateBook
func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error) {
	now := time.Now()
	book := &model.Book{
		ID:              uuid.New(),
		Title:           req.Title,
		ISBN:            req.ISBN,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		PageCount:       req.PageCount,
		Genres:          req.Genres,
		Summary:         req.Summary,
		Price:           decimal.NewFromFloat(req.Price),
		CopiesCount:     req.CopiesCount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book.ToResponse(), nil
}

// GetBook implements Service.GetBook
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID, viewer *uuid.UUID, staffView bool) (*model.BookResponse, error) {
	book, err := s.getCached(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := book.ToResponse()
	if err := s.attachCirculation(ctx, resp, viewer, staffView); err != nil {
		return nil, err
	}

	return resp, nil
}

// ListBooks implements Service.ListBooks
func (s *BookService) ListBooks(ctx context.Context, q model.ListBooksQuery, viewer *uuid.UUID, staffView bool) ([]model.BookResponse, int, error) {
	q.SetDefaults()

	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]model.BookResponse, 0, len(books))
	for i := range books {
		resp := books[i].ToResponse()
		if err := s.attachCirculation(ctx, resp, viewer, staffView); err != nil {
			return nil, 0, err
		}
		responses = append(responses, *resp)
	}

	return responses, total, nil
}

// attachCirculation decorates a book with viewer-dependent state. Staff
// get the raw counts; everyone else gets a single resolved status.
func (s *BookService) attachCirculation(ctx context.Context, resp *model.BookResponse, viewer *uuid.UUID, staffView bool) error {
	if staffView {
		avail, err := s.circulation.GetAvailability(ctx, resp.ID)
		if err != nil {
			return fmt.Errorf("get availability for %s: %w", resp.ID, err)
		}
		resp.Availability = avail
		return nil
	}

	status, err := s.circulation.ResolveStatus(ctx, resp.ID, viewer)
	if err != nil {
		return fmt.Errorf("resolve status for %s: %w", resp.ID, err)
	}
	resp.Status = string(status)
	return nil
}

// UpdateBook implements Service.UpdateBook. Shrinking copies_count below
// the number of open borrows plus unexpired holds is rejected.
func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.ISBN != nil {
		book.ISBN = req.ISBN
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.PublicationYear != nil {
		book.PublicationYear = req.PublicationYear
	}
	if req.PageCount != nil {
		book.PageCount = req.PageCount
	}
	if req.Genres != nil {
		book.Genres = req.Genres
	}
	if req.Summary != nil {
		book.Summary = req.Summary
	}
	if req.Price != nil {
		book.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.CopiesCount != nil && *req.CopiesCount != book.CopiesCount {
		if *req.CopiesCount < book.CopiesCount {
			if err := s.circulation.CanReduceCopiesTo(ctx, id, *req.CopiesCount); err != nil {
				return nil, err
			}
		}
		book.CopiesCount = *req.CopiesCount
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return book.ToResponse(), nil
}

// DeleteBook implements Service.DeleteBook
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.enqueueCoverTask(shared.TypeDeleteCoverImage, id)
	return nil
}

// ListGenres implements Service.ListGenres
func (s *BookService) ListGenres(ctx context.Context) ([]string, error) {
	var genres []string
	found, err := s.cache.Get(ctx, "genres", &genres)
	if err != nil {
		logger.Warn("Genre cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return genres, nil
	}

	genres, err = s.repo.ListGenres(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, "genres", genres, bookCacheTTL); err != nil {
		logger.Warn("Genre cache write failed", map[string]interface{}{"error": err.Error()})
	}

	return genres, nil
}

// UploadCover implements Service.UploadCover. The original is stored
// right away; resizing happens on the worker.
func (s *BookService) UploadCover(ctx context.Context, id uuid.UUID, data []byte) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.images.ValidateImage(data); err != nil {
		return err
	}

	key := fmt.Sprintf("covers/%s/original", id)
	if _, err := s.storage.Upload(ctx, key, data, "application/octet-stream"); err != nil {
		return err
	}

	s.enqueueCoverTask(shared.TypeProcessCoverImage, id)
	return nil
}

// ProcessCover generates the resized cover variants. Runs on the worker.
func (s *BookService) ProcessCover(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("covers/%s/original", id)
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		return err
	}

	variants, err := s.images.ProcessImage(data)
	if err != nil {
		return err
	}

	var mediumURL string
	for name, content := range variants {
		variantKey := fmt.Sprintf("covers/%s/%s.jpg", id, name)
		url, err := s.storage.Upload(ctx, variantKey, content, "image/jpeg")
		if err != nil {
			return err
		}
		if name == "medium" {
			mediumURL = url
		}
	}

	if err := s.repo.SetCoverURL(ctx, id, &mediumURL); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// DeleteCover removes every stored cover variant. Runs on the worker.
func (s *BookService) DeleteCover(ctx context.Context, id uuid.UUID) error {
	return s.storage.DeleteByPrefix(ctx, fmt.Sprintf("covers/%s/", id))
}

func (s *BookService) getCached(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCachePrefix + id.String()

	var book model.Book
	found, err := s.cache.Get(ctx, cacheKey, &book)
	if err != nil {
		logger.Warn("Book cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return &book, nil
	}

	fresh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, fresh, bookCacheTTL); err != nil {
		logger.Warn("Book cache write failed", map[string]interface{}{"error": err.Error()})
	}

	return fresh, nil
}

func (s *BookService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, bookCachePrefix+id.String(), "genres"); err != nil {
		logger.Warn("Book cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *BookService) enqueueCoverTask(taskType string, id uuid.UUID) {
	if s.queue == nil {
		return
	}

	payload, err := json.Marshal(model.CoverTaskPayload{BookID: id.String()})
	if err != nil {
		logger.Error("Failed to marshal cover task payload", err)
		return
	}

	task := asynq.NewTask(taskType, payload)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueCatalog)); err != nil {
		logger.Error("Failed to enqueue cover task", err)
	}
}
