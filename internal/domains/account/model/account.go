package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried in JWT claims and enforced by route middleware.
const (
	RoleReader = "reader"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

// Reader is a library patron. Code is the 13-digit number printed on the
// physical library card.
type Reader struct {
	ID           uuid.UUID
	Code         string
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Staff is a library employee. Staff sign in with a username rather than
// an email; Role distinguishes admins from desk staff.
type Staff struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
