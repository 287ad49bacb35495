package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"library-backend/internal/domains/account/model"
	"library-backend/internal/domains/account/repository"
	"library-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type AccountService struct {
	repo       repository.RepositoryInterface
	jwtManager *jwt.Manager
}

// NewService creates a new account service
func NewService(repo repository.RepositoryInterface, jwtManager *jwt.Manager) ServiceInterface {
	return &AccountService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// RegisterReader implements Service.RegisterReader
func (s *AccountService) RegisterReader(ctx context.Context, req model.RegisterReaderRequest) (*model.ReaderDTO, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateCardCode()
	if err != nil {
		return nil, fmt.Errorf("generate card code: %w", err)
	}

	now := time.Now()
	reader := &model.Reader{
		ID:           uuid.New(),
		Code:         code,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Phone:        stringPtr(req.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateReader(ctx, reader); err != nil {
		return nil, err
	}

	dto := reader.ToDTO()
	return &dto, nil
}

// ReaderLogin implements Service.ReaderLogin
func (s *AccountService) ReaderLogin(ctx context.Context, req model.ReaderLoginRequest) (*model.LoginResponse, error) {
	reader, err := s.repo.GetReaderByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(reader.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(reader.ID.String(), model.RoleReader, reader.ToDTO())
}

// StaffLogin implements Service.StaffLogin. Staff sign in with a
// username; their stored role (staff or admin) goes into the token.
func (s *AccountService) StaffLogin(ctx context.Context, req model.StaffLoginRequest) (*model.LoginResponse, error) {
	staff, err := s.repo.GetStaffByUsername(ctx, req.Username)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(staff.ID.String(), staff.Role, staff.ToDTO())
}

// Refresh implements Service.Refresh. The principal is re-read so a
// deleted account cannot mint fresh tokens.
func (s *AccountService) Refresh(ctx context.Context, req model.RefreshRequest) (*model.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	if claims.Role == model.RoleReader {
		reader, err := s.repo.GetReaderByID(ctx, userID)
		if err != nil {
			return nil, model.ErrInvalidToken
		}
		return s.issueTokens(reader.ID.String(), model.RoleReader, reader.ToDTO())
	}

	staff, err := s.repo.GetStaffByID(ctx, userID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	return s.issueTokens(staff.ID.String(), staff.Role, staff.ToDTO())
}

func (s *AccountService) issueTokens(userID, role string, user interface{}) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(15 * time.Minute),
		User:         user,
	}, nil
}

// GetReaderProfile implements Service.GetReaderProfile
func (s *AccountService) GetReaderProfile(ctx context.Context, readerID uuid.UUID) (*model.ReaderDTO, error) {
	reader, err := s.repo.GetReaderByID(ctx, readerID)
	if err != nil {
		return nil, err
	}

	dto := reader.ToDTO()
	return &dto, nil
}

// UpdateReaderProfile implements Service.UpdateReaderProfile
func (s *AccountService) UpdateReaderProfile(ctx context.Context, readerID uuid.UUID, req model.UpdateProfileRequest) (*model.ReaderDTO, error) {
	reader, err := s.repo.GetReaderByID(ctx, readerID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		reader.FullName = req.FullName
	}
	if req.Phone != nil {
		reader.Phone = req.Phone
	}

	if err := s.repo.UpdateReader(ctx, reader); err != nil {
		return nil, err
	}

	dto := reader.ToDTO()
	return &dto, nil
}

// ListReaders implements Service.ListReaders
func (s *AccountService) ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.ReaderDTO, int, error) {
	req.SetDefaults()

	readers, total, err := s.repo.ListReaders(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]model.ReaderDTO, len(readers))
	for i := range readers {
		dtos[i] = readers[i].ToDTO()
	}

	return dtos, total, nil
}

// GetReaderByCode implements Service.GetReaderByCode. Staff use this at
// the desk when a patron presents a library card.
func (s *AccountService) GetReaderByCode(ctx context.Context, code string) (*model.ReaderDTO, error) {
	reader, err := s.repo.GetReaderByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	dto := reader.ToDTO()
	return &dto, nil
}

// CreateStaff implements Service.CreateStaff
func (s *AccountService) CreateStaff(ctx context.Context, req model.CreateStaffRequest) (*model.StaffDTO, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	staff := &model.Staff{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateStaff(ctx, staff); err != nil {
		return nil, err
	}

	dto := staff.ToDTO()
	return &dto, nil
}

// ListStaff implements Service.ListStaff
func (s *AccountService) ListStaff(ctx context.Context) ([]model.StaffDTO, error) {
	staffList, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]model.StaffDTO, len(staffList))
	for i := range staffList {
		dtos[i] = staffList[i].ToDTO()
	}

	return dtos, nil
}

// generateCardCode produces the 13-digit number printed on library cards.
func generateCardCode() (string, error) {
	max := big.NewInt(0).Exp(big.NewInt(10), big.NewInt(13), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%013d", n), nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
