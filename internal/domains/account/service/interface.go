package service

import (
	"context"

	"library-backend/internal/domains/account/model"

	"github.com/google/uuid"
)

// ServiceInterface defines account business operations
type ServiceInterface interface {
	RegisterReader(ctx context.Context, req model.RegisterReaderRequest) (*model.ReaderDTO, error)
	ReaderLogin(ctx context.Context, req model.ReaderLoginRequest) (*model.LoginResponse, error)
	StaffLogin(ctx context.Context, req model.StaffLoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (*model.LoginResponse, error)

	GetReaderProfile(ctx context.Context, readerID uuid.UUID) (*model.ReaderDTO, error)
	UpdateReaderProfile(ctx context.Context, readerID uuid.UUID, req model.UpdateProfileRequest) (*model.ReaderDTO, error)
	ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.ReaderDTO, int, error)
	GetReaderByCode(ctx context.Context, code string) (*model.ReaderDTO, error)

	CreateStaff(ctx context.Context, req model.CreateStaffRequest) (*model.StaffDTO, error)
	ListStaff(ctx context.Context) ([]model.StaffDTO, error)
}
