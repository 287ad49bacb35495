package repository

import (
	"context"
	"errors"
	"fmt"

	"library-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

const bookColumns = `id, title, isbn, author, publisher, publication_year,
	page_count, genres, summary, price, copies_count, cover_url,
	created_at, updated_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.ISBN,
		&b.Author,
		&b.Publisher,
		&b.PublicationYear,
		&b.PageCount,
		&b.Genres,
		&b.Summary,
		&b.Price,
		&b.CopiesCount,
		&b.CoverURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create implements Repository.Create
func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, isbn, author, publisher, publication_year,
			page_count, genres, summary, price, copies_count, cover_url,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.ISBN,
		book.Author,
		book.Publisher,
		book.PublicationYear,
		book.PageCount,
		book.Genres,
		book.Summary,
		book.Price,
		book.CopiesCount,
		book.CoverURL,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on isbn
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// GetByID implements Repository.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := "SELECT " + bookColumns + " FROM books WHERE id = $1"

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return book, nil
}

// List implements Repository.List
func (r *postgresRepository) List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error) {
	queryBuilder := "SELECT " + bookColumns + " FROM books WHERE 1=1"
	countQuery := "SELECT COUNT(*) FROM books WHERE 1=1"

	args := []interface{}{}
	argCount := 1

	if q.Search != "" {
		clause := fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d OR isbn = $%d)", argCount, argCount, argCount+1)
		queryBuilder += clause
		countQuery += clause
		args = append(args, "%"+q.Search+"%", q.Search)
		argCount += 2
	}

	if q.Genre != "" {
		clause := fmt.Sprintf(" AND $%d = ANY(genres)", argCount)
		queryBuilder += clause
		countQuery += clause
		args = append(args, q.Genre)
		argCount++
	}

	var totalCount int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	queryBuilder += " ORDER BY title ASC, id ASC"
	offset := (q.Page - 1) * q.Limit
	queryBuilder += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, q.Limit, offset)

	rows, err := r.pool.Query(ctx, queryBuilder, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, q.Limit)
	for rows.Next() {
		var b model.Book
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.ISBN,
			&b.Author,
			&b.Publisher,
			&b.PublicationYear,
			&b.PageCount,
			&b.Genres,
			&b.Summary,
			&b.Price,
			&b.CopiesCount,
			&b.CoverURL,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating book rows: %w", err)
	}

	return books, totalCount, nil
}

// Update implements Repository.Update
func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, isbn = $3, author = $4, publisher = $5,
			publication_year = $6, page_count = $7, genres = $8,
			summary = $9, price = $10, copies_count = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.ID,
		book.Title,
		book.ISBN,
		book.Author,
		book.Publisher,
		book.PublicationYear,
		book.PageCount,
		book.Genres,
		book.Summary,
		book.Price,
		book.CopiesCount,
	).Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	return nil
}

// Delete implements Repository.Delete. The foreign keys from borrows and
// hold_requests are RESTRICT, so a book with circulation history cannot
// be removed.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return model.ErrBookHasClaims
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// SetCoverURL implements Repository.SetCoverURL
func (r *postgresRepository) SetCoverURL(ctx context.Context, id uuid.UUID, coverURL *string) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE books SET cover_url = $2, updated_at = NOW() WHERE id = $1",
		id, coverURL,
	)
	if err != nil {
		return fmt.Errorf("failed to set cover url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// ListGenres implements Repository.ListGenres
func (r *postgresRepository) ListGenres(ctx context.Context) ([]string, error) {
	query := "SELECT DISTINCT unnest(genres) AS genre FROM books ORDER BY genre ASC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	genres := make([]string, 0, 32)
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genres: %w", err)
	}

	return genres, nil
}
