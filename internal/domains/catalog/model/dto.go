package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookRequest struct {
	Title           string   `json:"title"`
	ISBN            *string  `json:"isbn"`
	Author          string   `json:"author"`
	Publisher       *string  `json:"publisher"`
	PublicationYear *int     `json:"publication_year"`
	PageCount       *int     `json:"page_count"`
	Genres          []string `json:"genres"`
	Summary         *string  `json:"summary"`
	Price           float64  `json:"price"`
	CopiesCount     int      `json:"copies_count"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.ISBN, is.ISBN),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.PublicationYear, validation.Min(1000), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.PageCount, validation.Min(1)),
		validation.Field(&r.Genres, validation.Each(validation.Length(1, 50))),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.CopiesCount, validation.Required, validation.Min(1)),
	)
}

// UpdateBookRequest uses pointers so absent fields stay untouched.
type UpdateBookRequest struct {
	Title           *string  `json:"title"`
	ISBN            *string  `json:"isbn"`
	Author          *string  `json:"author"`
	Publisher       *string  `json:"publisher"`
	PublicationYear *int     `json:"publication_year"`
	PageCount       *int     `json:"page_count"`
	Genres          []string `json:"genres"`
	Summary         *string  `json:"summary"`
	Price           *float64 `json:"price"`
	CopiesCount     *int     `json:"copies_count"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 500)),
		validation.Field(&r.ISBN, is.ISBN),
		validation.Field(&r.Author, validation.Length(1, 255)),
		validation.Field(&r.PublicationYear, validation.Min(1000), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.PageCount, validation.Min(1)),
		validation.Field(&r.Genres, validation.Each(validation.Length(1, 50))),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.CopiesCount, validation.Min(1)),
	)
}

type ListBooksQuery struct {
	Search string `form:"search"`
	Genre  string `form:"genre"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (q *ListBooksQuery) SetDefaults() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// BookResponse is the catalog wire shape. Status carries the viewer's
// resolved relationship to the book (reader and anonymous views);
// Availability carries the raw counts (staff views). Exactly one of the
// two is populated.
type BookResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	ISBN            *string         `json:"isbn,omitempty"`
	Author          string          `json:"author"`
	Publisher       *string         `json:"publisher,omitempty"`
	PublicationYear *int            `json:"publication_year,omitempty"`
	PageCount       *int            `json:"page_count,omitempty"`
	Genres          []string        `json:"genres,omitempty"`
	Summary         *string         `json:"summary,omitempty"`
	Price           decimal.Decimal `json:"price"`
	CopiesCount     int             `json:"copies_count"`
	CoverURL        *string         `json:"cover_url,omitempty"`
	Status          string          `json:"status,omitempty"`
	Availability    interface{}     `json:"availability,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		PageCount:       b.PageCount,
		Genres:          []string(b.Genres),
		Summary:         b.Summary,
		Price:           b.Price,
		CopiesCount:     b.CopiesCount,
		CoverURL:        b.CoverURL,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
