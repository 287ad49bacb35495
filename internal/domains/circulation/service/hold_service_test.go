package service

import (
	"context"
	"testing"
	"time"

	"library-backend/internal/domains/circulation/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *fakeRepo) ServiceInterface {
	return NewService(repo, 48*time.Hour, 30)
}

// expiredHoldService issues holds that are already past expiry, which
// stands in for holds aged past their TTL.
func expiredHoldService(repo *fakeRepo) ServiceInterface {
	return NewService(repo, -time.Hour, 30)
}

func holdReq(bookID uuid.UUID) model.CreateHoldRequest {
	return model.CreateHoldRequest{BookID: bookID.String()}
}

func TestService_PlaceHold(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(2)
	readerID := repo.addReader()

	hold, err := svc.PlaceHold(ctx, readerID, holdReq(bookID))

	require.NoError(t, err)
	assert.Equal(t, readerID, hold.ReaderID)
	assert.Equal(t, bookID, hold.BookID)
	assert.True(t, hold.ExpiryDate.After(hold.HoldDate))
}

func TestService_PlaceHold_BookNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	readerID := repo.addReader()

	_, err := svc.PlaceHold(ctx, readerID, holdReq(uuid.New()))
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = svc.PlaceHold(ctx, readerID, model.CreateHoldRequest{BookID: "garbage"})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestService_PlaceHold_Duplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(5)
	readerID := repo.addReader()

	_, err := svc.PlaceHold(ctx, readerID, holdReq(bookID))
	require.NoError(t, err)

	_, err = svc.PlaceHold(ctx, readerID, holdReq(bookID))
	assert.ErrorIs(t, err, model.ErrDuplicateHold)
}

func TestService_PlaceHold_WhileBorrowing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(5)
	readerID := repo.addReader()
	staffID := repo.addStaff()

	_, err := svc.BorrowBook(ctx, staffID, model.BorrowBookRequest{
		ReaderID: readerID.String(),
		BookID:   bookID.String(),
	})
	require.NoError(t, err)

	_, err = svc.PlaceHold(ctx, readerID, holdReq(bookID))
	assert.ErrorIs(t, err, model.ErrAlreadyBorrowing)
}

func TestService_PlaceHold_NoCopiesAvailable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(2)

	for i := 0; i < 2; i++ {
		_, err := svc.PlaceHold(ctx, repo.addReader(), holdReq(bookID))
		require.NoError(t, err)
	}

	_, err := svc.PlaceHold(ctx, repo.addReader(), holdReq(bookID))
	assert.ErrorIs(t, err, model.ErrNoCopiesAvailable)
}

func TestService_PlaceHold_AfterExpiry(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	bookID := repo.addBook(1)
	readerID := repo.addReader()

	_, err := expiredHoldService(repo).PlaceHold(ctx, readerID, holdReq(bookID))
	require.NoError(t, err)

	// The stale row must not block a fresh hold from the same reader.
	hold, err := newTestService(repo).PlaceHold(ctx, readerID, holdReq(bookID))
	require.NoError(t, err)
	assert.False(t, hold.ExpiryDate.Before(time.Now()))
}

func TestService_ExpiredHoldFreesCopy(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	bookID := repo.addBook(1)

	_, err := expiredHoldService(repo).PlaceHold(ctx, repo.addReader(), holdReq(bookID))
	require.NoError(t, err)

	// The copy claimed by the expired hold is admissible again even
	// before the sweep runs.
	_, err = newTestService(repo).PlaceHold(ctx, repo.addReader(), holdReq(bookID))
	assert.NoError(t, err)
}

func TestService_HasHold(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(1)
	readerID := repo.addReader()

	has, err := svc.HasHold(ctx, readerID, bookID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.PlaceHold(ctx, readerID, holdReq(bookID))
	require.NoError(t, err)

	has, err = svc.HasHold(ctx, readerID, bookID)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, svc.CancelHold(ctx, readerID, bookID))

	has, err = svc.HasHold(ctx, readerID, bookID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestService_HasHold_ExpiredHold(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	bookID := repo.addBook(1)
	readerID := repo.addReader()

	_, err := expiredHoldService(repo).PlaceHold(ctx, readerID, holdReq(bookID))
	require.NoError(t, err)

	has, err := newTestService(repo).HasHold(ctx, readerID, bookID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestService_CancelHold_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(1)
	readerID := repo.addReader()

	_, err := svc.PlaceHold(ctx, readerID, holdReq(bookID))
	require.NoError(t, err)

	require.NoError(t, svc.CancelHold(ctx, readerID, bookID))
	assert.NoError(t, svc.CancelHold(ctx, readerID, bookID))

	holds, err := svc.ListReaderHolds(ctx, readerID)
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestService_CancelHold_FreesCopy(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(1)
	first := repo.addReader()
	second := repo.addReader()

	_, err := svc.PlaceHold(ctx, first, holdReq(bookID))
	require.NoError(t, err)

	_, err = svc.PlaceHold(ctx, second, holdReq(bookID))
	require.ErrorIs(t, err, model.ErrNoCopiesAvailable)

	require.NoError(t, svc.CancelHold(ctx, first, bookID))

	_, err = svc.PlaceHold(ctx, second, holdReq(bookID))
	assert.NoError(t, err)
}

func TestService_ListHolds_Pagination(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	bookID := repo.addBook(10)
	for i := 0; i < 5; i++ {
		_, err := svc.PlaceHold(ctx, repo.addReader(), holdReq(bookID))
		require.NoError(t, err)
	}

	holds, total, err := svc.ListHolds(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, holds, 3)

	holds, total, err = svc.ListHolds(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, holds, 2)

	// Out-of-range paging inputs fall back to defaults.
	holds, _, err = svc.ListHolds(ctx, 0, -5)
	require.NoError(t, err)
	assert.Len(t, holds, 5)
}

func TestService_ExpireHolds(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	bookID := repo.addBook(5)
	expired := expiredHoldService(repo)
	live := newTestService(repo)

	holder := repo.addReader()
	_, err := live.PlaceHold(ctx, holder, holdReq(bookID))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := expired.PlaceHold(ctx, repo.addReader(), holdReq(bookID))
		require.NoError(t, err)
	}

	removed, err := live.ExpireHolds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	holds, err := live.ListReaderHolds(ctx, holder)
	require.NoError(t, err)
	assert.Len(t, holds, 1)
}
