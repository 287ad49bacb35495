package service

import (
	"context"
	"testing"
	"time"

	"library-backend/internal/domains/catalog/model"
	"library-backend/internal/domains/catalog/repository"
	circmodel "library-backend/internal/domains/circulation/model"
	circulation "library-backend/internal/domains/circulation/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookRepo struct {
	books map[uuid.UUID]*model.Book
}

var _ repository.RepositoryInterface = (*fakeBookRepo)(nil)

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*model.Book)}
}

func (f *fakeBookRepo) Create(ctx context.Context, book *model.Book) error {
	clone := *book
	f.books[book.ID] = &clone
	return nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookRepo) List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error) {
	var out []model.Book
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (f *fakeBookRepo) Update(ctx context.Context, book *model.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return model.ErrBookNotFound
	}
	clone := *book
	f.books[book.ID] = &clone
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) SetCoverURL(ctx context.Context, id uuid.UUID, coverURL *string) error {
	b, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	b.CoverURL = coverURL
	return nil
}

func (f *fakeBookRepo) ListGenres(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, b := range f.books {
		for _, g := range b.Genres {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	return out, nil
}

// stubCirculation overrides only the calls the catalog makes; the
// embedded nil interface panics on anything unexpected.
type stubCirculation struct {
	circulation.ServiceInterface
	status          circmodel.BookStatus
	avail           *circmodel.Availability
	canReduceErr    error
	canReduceCalled bool
}

func (s *stubCirculation) ResolveStatus(ctx context.Context, bookID uuid.UUID, viewer *uuid.UUID) (circmodel.BookStatus, error) {
	return s.status, nil
}

func (s *stubCirculation) GetAvailability(ctx context.Context, bookID uuid.UUID) (*circmodel.Availability, error) {
	return s.avail, nil
}

func (s *stubCirculation) CanReduceCopiesTo(ctx context.Context, bookID uuid.UUID, newCount int) error {
	s.canReduceCalled = true
	return s.canReduceErr
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, keys ...string) error  { return nil }
func (noopCache) DeletePattern(ctx context.Context, p string) error { return nil }
func (noopCache) Ping(ctx context.Context) error                    { return nil }

func newTestBookService(repo *fakeBookRepo, circ *stubCirculation) ServiceInterface {
	return NewService(repo, circ, noopCache{}, nil, nil, nil)
}

func createTestBook(t *testing.T, svc ServiceInterface, copies int) *model.BookResponse {
	t.Helper()
	resp, err := svc.CreateBook(context.Background(), model.CreateBookRequest{
		Title:       "The Go Programming Language",
		Author:      "Donovan and Kernighan",
		Genres:      []string{"programming"},
		Price:       39.99,
		CopiesCount: copies,
	})
	require.NoError(t, err)
	return resp
}

func TestBookService_CreateBook(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo, &stubCirculation{})

	resp := createTestBook(t, svc, 3)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "The Go Programming Language", resp.Title)
	assert.Equal(t, 3, resp.CopiesCount)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "39.99", stored.Price.StringFixed(2))
}

func TestBookService_GetBook_ReaderView(t *testing.T) {
	repo := newFakeBookRepo()
	circ := &stubCirculation{status: circmodel.BookStatusAvailable}
	svc := newTestBookService(repo, circ)

	created := createTestBook(t, svc, 1)

	resp, err := svc.GetBook(context.Background(), created.ID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, string(circmodel.BookStatusAvailable), resp.Status)
	assert.Nil(t, resp.Availability)
}

func TestBookService_GetBook_StaffView(t *testing.T) {
	repo := newFakeBookRepo()
	circ := &stubCirculation{
		avail: &circmodel.Availability{CopiesCount: 3, ActiveBorrows: 1, ActiveHolds: 1},
	}
	svc := newTestBookService(repo, circ)

	created := createTestBook(t, svc, 3)

	resp, err := svc.GetBook(context.Background(), created.ID, nil, true)
	require.NoError(t, err)
	assert.Empty(t, resp.Status)
	assert.Equal(t, circ.avail, resp.Availability)
}

func TestBookService_GetBook_NotFound(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo(), &stubCirculation{})

	_, err := svc.GetBook(context.Background(), uuid.New(), nil, true)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestBookService_UpdateBook_PartialFields(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo, &stubCirculation{})

	created := createTestBook(t, svc, 2)

	title := "Updated Title"
	resp, err := svc.UpdateBook(context.Background(), created.ID, model.UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, resp.Title)
	assert.Equal(t, created.Author, resp.Author)
	assert.Equal(t, 2, resp.CopiesCount)
}

func TestBookService_UpdateBook_ReduceCopiesChecked(t *testing.T) {
	repo := newFakeBookRepo()
	circ := &stubCirculation{canReduceErr: circmodel.ErrCopiesBelowInUse}
	svc := newTestBookService(repo, circ)

	created := createTestBook(t, svc, 3)

	one := 1
	_, err := svc.UpdateBook(context.Background(), created.ID, model.UpdateBookRequest{CopiesCount: &one})
	assert.ErrorIs(t, err, circmodel.ErrCopiesBelowInUse)
	assert.True(t, circ.canReduceCalled)

	// The rejected update must not stick.
	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CopiesCount)
}

func TestBookService_UpdateBook_IncreaseCopiesUnchecked(t *testing.T) {
	repo := newFakeBookRepo()
	circ := &stubCirculation{canReduceErr: circmodel.ErrCopiesBelowInUse}
	svc := newTestBookService(repo, circ)

	created := createTestBook(t, svc, 3)

	five := 5
	resp, err := svc.UpdateBook(context.Background(), created.ID, model.UpdateBookRequest{CopiesCount: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.CopiesCount)
	assert.False(t, circ.canReduceCalled)
}

func TestBookService_DeleteBook(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo, &stubCirculation{})

	created := createTestBook(t, svc, 1)

	require.NoError(t, svc.DeleteBook(context.Background(), created.ID))
	assert.ErrorIs(t, svc.DeleteBook(context.Background(), created.ID), model.ErrBookNotFound)
}

func TestBookService_ListGenres(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo, &stubCirculation{})

	createTestBook(t, svc, 1)

	genres, err := svc.ListGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"programming"}, genres)
}
