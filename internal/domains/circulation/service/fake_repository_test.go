package service

import (
	"context"
	"sync"
	"time"

	"library-backend/internal/domains/circulation/model"
	"library-backend/internal/domains/circulation/repository"

	"github.com/google/uuid"
)

type holdKey struct {
	readerID uuid.UUID
	bookID   uuid.UUID
}

// fakeRepo is an in-memory repository with the same admission semantics
// as the postgres implementation: one lock serializes CreateHold and
// CreateBorrow, so the capacity invariant is enforced the same way the
// row lock enforces it.
type fakeRepo struct {
	mu      sync.Mutex
	copies  map[uuid.UUID]int
	readers map[uuid.UUID]bool
	staff   map[uuid.UUID]bool
	holds   map[holdKey]*model.HoldRequest
	borrows map[uuid.UUID]*model.Borrow
}

var _ repository.RepositoryInterface = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		copies:  make(map[uuid.UUID]int),
		readers: make(map[uuid.UUID]bool),
		staff:   make(map[uuid.UUID]bool),
		holds:   make(map[holdKey]*model.HoldRequest),
		borrows: make(map[uuid.UUID]*model.Borrow),
	}
}

func (f *fakeRepo) addBook(copies int) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.copies[id] = copies
	return id
}

func (f *fakeRepo) addReader() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.readers[id] = true
	return id
}

func (f *fakeRepo) addStaff() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.staff[id] = true
	return id
}

func (f *fakeRepo) countActiveLocked(bookID uuid.UUID, now time.Time) (int, int) {
	borrows := 0
	for _, b := range f.borrows {
		if b.BookID == bookID && b.ReturnDate == nil {
			borrows++
		}
	}
	holds := 0
	for _, h := range f.holds {
		if h.BookID == bookID && !h.IsExpired(now) {
			holds++
		}
	}
	return borrows, holds
}

func (f *fakeRepo) hasOpenBorrowLocked(readerID, bookID uuid.UUID) bool {
	for _, b := range f.borrows {
		if b.ReaderID == readerID && b.BookID == bookID && b.ReturnDate == nil {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateHold(ctx context.Context, hold *model.HoldRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()

	copies, ok := f.copies[hold.BookID]
	if !ok {
		return model.ErrBookNotFound
	}
	if !f.readers[hold.ReaderID] {
		return model.ErrReaderNotFound
	}
	if f.hasOpenBorrowLocked(hold.ReaderID, hold.BookID) {
		return model.ErrAlreadyBorrowing
	}

	key := holdKey{hold.ReaderID, hold.BookID}
	if existing, ok := f.holds[key]; ok {
		if !existing.IsExpired(now) {
			return model.ErrDuplicateHold
		}
		delete(f.holds, key)
	}

	borrows, holds := f.countActiveLocked(hold.BookID, now)
	if borrows+holds >= copies {
		return model.ErrNoCopiesAvailable
	}

	clone := *hold
	f.holds[key] = &clone
	return nil
}

func (f *fakeRepo) CreateBorrow(ctx context.Context, borrow *model.Borrow) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()

	copies, ok := f.copies[borrow.BookID]
	if !ok {
		return model.ErrBookNotFound
	}

	key := holdKey{borrow.ReaderID, borrow.BookID}
	promoted := false
	if existing, ok := f.holds[key]; ok && !existing.IsExpired(now) {
		delete(f.holds, key)
		promoted = true
	}

	if !promoted {
		borrows, holds := f.countActiveLocked(borrow.BookID, now)
		if borrows+holds >= copies {
			return model.ErrNoCopiesAvailable
		}
	}

	return f.insertBorrowLocked(borrow)
}

func (f *fakeRepo) CreateBorrowFromHold(ctx context.Context, borrow *model.Borrow, holdID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()

	if _, ok := f.copies[borrow.BookID]; !ok {
		return model.ErrBookNotFound
	}

	var consumed bool
	for key, h := range f.holds {
		if h.ID == holdID && !h.IsExpired(now) {
			delete(f.holds, key)
			consumed = true
			break
		}
	}
	if !consumed {
		return model.ErrHoldNotFound
	}

	return f.insertBorrowLocked(borrow)
}

// insertBorrowLocked mirrors the postgres insert: the FK checks for the
// reader and staff rows and the partial unique index on open borrows.
func (f *fakeRepo) insertBorrowLocked(borrow *model.Borrow) error {
	if !f.readers[borrow.ReaderID] {
		return model.ErrReaderNotFound
	}
	if !f.staff[borrow.StaffID] {
		return model.ErrStaffNotFound
	}
	if f.hasOpenBorrowLocked(borrow.ReaderID, borrow.BookID) {
		return model.ErrAlreadyBorrowing
	}

	clone := *borrow
	f.borrows[borrow.ID] = &clone
	return nil
}

func (f *fakeRepo) ReturnBook(ctx context.Context, borrowID uuid.UUID, returnedAt time.Time) (*model.Borrow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.borrows[borrowID]
	if !ok {
		return nil, model.ErrBorrowNotFound
	}
	if b.ReturnDate != nil {
		return nil, model.ErrAlreadyReturned
	}

	ret := returnedAt
	b.ReturnDate = &ret
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) GetHoldByID(ctx context.Context, id uuid.UUID, now time.Time) (*model.HoldRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, h := range f.holds {
		if h.ID == id && !h.IsExpired(now) {
			clone := *h
			return &clone, nil
		}
	}
	return nil, model.ErrHoldNotFound
}

func (f *fakeRepo) DeleteHold(ctx context.Context, readerID, bookID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := holdKey{readerID, bookID}
	if _, ok := f.holds[key]; !ok {
		return 0, nil
	}
	delete(f.holds, key)
	return 1, nil
}

func (f *fakeRepo) ListHoldsByReader(ctx context.Context, readerID uuid.UUID, now time.Time) ([]model.HoldRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.HoldRequest
	for _, h := range f.holds {
		if h.ReaderID == readerID && !h.IsExpired(now) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListHolds(ctx context.Context, now time.Time, page, limit int) ([]model.HoldRequest, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []model.HoldRequest
	for _, h := range f.holds {
		if !h.IsExpired(now) {
			all = append(all, *h)
		}
	}

	total := len(all)
	offset := (page - 1) * limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) GetBorrow(ctx context.Context, id uuid.UUID) (*model.Borrow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.borrows[id]
	if !ok {
		return nil, model.ErrBorrowNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) ([]model.Borrow, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []model.Borrow
	for _, b := range f.borrows {
		if filter.ReaderID != nil && b.ReaderID != *filter.ReaderID {
			continue
		}
		if filter.BookID != nil && b.BookID != *filter.BookID {
			continue
		}
		all = append(all, *b)
	}

	total := len(all)
	offset := (filter.Page - 1) * filter.Limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) ListBorrowsByReader(ctx context.Context, readerID uuid.UUID) ([]model.Borrow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Borrow
	for _, b := range f.borrows {
		if b.ReaderID == readerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountActive(ctx context.Context, bookID uuid.UUID, now time.Time) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	borrows, holds := f.countActiveLocked(bookID, now)
	return borrows, holds, nil
}

func (f *fakeRepo) GetCopiesCount(ctx context.Context, bookID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	copies, ok := f.copies[bookID]
	if !ok {
		return 0, model.ErrBookNotFound
	}
	return copies, nil
}

func (f *fakeRepo) HasOpenBorrow(ctx context.Context, readerID, bookID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hasOpenBorrowLocked(readerID, bookID), nil
}

func (f *fakeRepo) HasHold(ctx context.Context, readerID, bookID uuid.UUID, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	h, ok := f.holds[holdKey{readerID, bookID}]
	return ok && !h.IsExpired(now), nil
}

func (f *fakeRepo) DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for key, h := range f.holds {
		if h.IsExpired(now) {
			delete(f.holds, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeRepo) ListOverdue(ctx context.Context, now time.Time) ([]model.Borrow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Borrow
	for _, b := range f.borrows {
		if b.ReturnDate == nil && now.After(b.DueDate) {
			out = append(out, *b)
		}
	}
	return out, nil
}
