package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type RegisterReaderRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (r RegisterReaderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Phone, validation.Length(0, 20)),
	)
}

type ReaderLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r ReaderLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type StaffLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r StaffLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type CreateStaffRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (r CreateStaffRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 64), is.Alphanumeric),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Role, validation.Required, validation.In(RoleStaff, RoleAdmin)),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type UpdateProfileRequest struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(1, 255)),
	)
}

type ListReadersRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListReadersRequest) SetDefaults() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

type ReaderDTO struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Phone    *string   `json:"phone,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

func (r *Reader) ToDTO() ReaderDTO {
	return ReaderDTO{
		ID:       r.ID,
		Code:     r.Code,
		Email:    r.Email,
		FullName: r.FullName,
		Phone:    r.Phone,
		JoinedAt: r.CreatedAt,
	}
}

type StaffDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

func (s *Staff) ToDTO() StaffDTO {
	return StaffDTO{
		ID:       s.ID,
		Username: s.Username,
		FullName: s.FullName,
		Role:     s.Role,
	}
}

// LoginResponse carries the token pair plus the signed-in principal.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         interface{} `json:"user"`
}
