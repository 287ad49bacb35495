package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Book is a catalog entry. CopiesCount is the number of physical copies
// the library owns; who currently has them lives in the circulation
// domain.
type Book struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	ISBN            *string         `json:"isbn" db:"isbn"`
	Author          string          `json:"author" db:"author"`
	Publisher       *string         `json:"publisher" db:"publisher"`
	PublicationYear *int            `json:"publication_year" db:"publication_year"`
	PageCount       *int            `json:"page_count" db:"page_count"`
	Genres          pq.StringArray  `json:"genres" db:"genres"`
	Summary         *string         `json:"summary" db:"summary"`
	Price           decimal.Decimal `json:"price" db:"price"`
	CopiesCount     int             `json:"copies_count" db:"copies_count"`
	CoverURL        *string         `json:"cover_url" db:"cover_url"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
