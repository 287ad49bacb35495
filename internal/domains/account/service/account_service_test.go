package service

import (
	"context"
	"regexp"
	"testing"

	"library-backend/internal/domains/account/model"
	"library-backend/internal/domains/account/repository"
	"library-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	readers map[uuid.UUID]*model.Reader
	staff   map[uuid.UUID]*model.Staff
}

var _ repository.RepositoryInterface = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		readers: make(map[uuid.UUID]*model.Reader),
		staff:   make(map[uuid.UUID]*model.Staff),
	}
}

func (f *fakeAccountRepo) CreateReader(ctx context.Context, reader *model.Reader) error {
	for _, r := range f.readers {
		if r.Email == reader.Email {
			return model.ErrEmailAlreadyExists
		}
	}
	clone := *reader
	f.readers[reader.ID] = &clone
	return nil
}

func (f *fakeAccountRepo) GetReaderByID(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	r, ok := f.readers[id]
	if !ok {
		return nil, model.ErrReaderNotFound
	}
	clone := *r
	return &clone, nil
}

func (f *fakeAccountRepo) GetReaderByEmail(ctx context.Context, email string) (*model.Reader, error) {
	for _, r := range f.readers {
		if r.Email == email {
			clone := *r
			return &clone, nil
		}
	}
	return nil, model.ErrReaderNotFound
}

func (f *fakeAccountRepo) GetReaderByCode(ctx context.Context, code string) (*model.Reader, error) {
	for _, r := range f.readers {
		if r.Code == code {
			clone := *r
			return &clone, nil
		}
	}
	return nil, model.ErrReaderNotFound
}

func (f *fakeAccountRepo) UpdateReader(ctx context.Context, reader *model.Reader) error {
	if _, ok := f.readers[reader.ID]; !ok {
		return model.ErrReaderNotFound
	}
	clone := *reader
	f.readers[reader.ID] = &clone
	return nil
}

func (f *fakeAccountRepo) ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.Reader, int, error) {
	var out []model.Reader
	for _, r := range f.readers {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (f *fakeAccountRepo) CreateStaff(ctx context.Context, staff *model.Staff) error {
	for _, s := range f.staff {
		if s.Username == staff.Username {
			return model.ErrUsernameAlreadyExists
		}
	}
	clone := *staff
	f.staff[staff.ID] = &clone
	return nil
}

func (f *fakeAccountRepo) GetStaffByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, model.ErrStaffNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeAccountRepo) GetStaffByUsername(ctx context.Context, username string) (*model.Staff, error) {
	for _, s := range f.staff {
		if s.Username == username {
			clone := *s
			return &clone, nil
		}
	}
	return nil, model.ErrStaffNotFound
}

func (f *fakeAccountRepo) ListStaff(ctx context.Context) ([]model.Staff, error) {
	var out []model.Staff
	for _, s := range f.staff {
		out = append(out, *s)
	}
	return out, nil
}

func newTestAccountService(repo *fakeAccountRepo) ServiceInterface {
	return NewService(repo, jwt.NewManager("test-secret", 15))
}

func registerReq(email string) model.RegisterReaderRequest {
	return model.RegisterReaderRequest{
		Email:    email,
		Password: "correct horse battery staple",
		FullName: "Test Reader",
	}
}

func TestAccountService_RegisterReader(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)

	reader, err := svc.RegisterReader(context.Background(), registerReq("reader@example.com"))

	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", reader.Email)
	assert.Regexp(t, regexp.MustCompile(`^\d{13}$`), reader.Code)

	// The stored hash must not be the plaintext password.
	stored, err := repo.GetReaderByEmail(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestAccountService_RegisterReader_DuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)
	ctx := context.Background()

	_, err := svc.RegisterReader(ctx, registerReq("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterReader(ctx, registerReq("dup@example.com"))
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestAccountService_RegisterReader_UniqueCardCodes(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		reader, err := svc.RegisterReader(ctx, registerReq(uuid.NewString()+"@example.com"))
		require.NoError(t, err)
		assert.False(t, seen[reader.Code], "card code %s issued twice", reader.Code)
		seen[reader.Code] = true
	}
}

func TestAccountService_ReaderLogin(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)
	ctx := context.Background()

	_, err := svc.RegisterReader(ctx, registerReq("login@example.com"))
	require.NoError(t, err)

	resp, err := svc.ReaderLogin(ctx, model.ReaderLoginRequest{
		Email:    "login@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAccountService_ReaderLogin_WrongPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)
	ctx := context.Background()

	_, err := svc.RegisterReader(ctx, registerReq("wrong@example.com"))
	require.NoError(t, err)

	_, err = svc.ReaderLogin(ctx, model.ReaderLoginRequest{
		Email:    "wrong@example.com",
		Password: "not the password",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAccountService_ReaderLogin_UnknownEmail(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo())

	// Missing accounts and bad passwords look identical to the caller.
	_, err := svc.ReaderLogin(context.Background(), model.ReaderLoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAccountService_StaffLoginAndRefresh(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, model.CreateStaffRequest{
		Username: "librarian",
		Password: "shelving is serious",
		FullName: "Head Librarian",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	login, err := svc.StaffLogin(ctx, model.StaffLoginRequest{
		Username: "librarian",
		Password: "shelving is serious",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, model.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAccountService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)
	ctx := context.Background()

	_, err := svc.RegisterReader(ctx, registerReq("refresh@example.com"))
	require.NoError(t, err)

	login, err := svc.ReaderLogin(ctx, model.ReaderLoginRequest{
		Email:    "refresh@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, model.RefreshRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}
