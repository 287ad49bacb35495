package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-backend/internal/domains/circulation/model"
	"library-backend/pkg/database"

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

const borrowColumns = "id, reader_id, book_id, staff_id, borrow_date, due_date, return_date"

func scanBorrow(row pgx.Row) (*model.Borrow, error) {
	var b model.Borrow
	err := row.Scan(
		&b.ID,
		&b.ReaderID,
		&b.BookID,
		&b.StaffID,
		&b.BorrowDate,
		&b.DueDate,
		&b.ReturnDate,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// lockBookCopies locks the book row and returns its copies count. The lock
// serializes concurrent admissions for the same book until the transaction
// commits.
func lockBookCopies(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	var copies int
	err := tx.QueryRow(ctx,
		"SELECT copies_count FROM books WHERE id = $1 FOR UPDATE",
		bookID,
	).Scan(&copies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrBookNotFound
		}
		return 0, fmt.Errorf("failed to lock book: %w", err)
	}
	return copies, nil
}

func countClaims(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, now time.Time) (borrows, holds int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM borrows WHERE book_id = $1 AND return_date IS NULL),
			(SELECT COUNT(*) FROM hold_requests WHERE book_id = $1 AND expiry_date > $2)
	`
	if err := tx.QueryRow(ctx, query, bookID, now).Scan(&borrows, &holds); err != nil {
		return 0, 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return borrows, holds, nil
}

// CreateHold implements RepositoryInterface.CreateHold
func (r *postgresRepository) CreateHold(ctx context.Context, hold *model.HoldRequest) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		copies, err := lockBookCopies(ctx, tx, hold.BookID)
		if err != nil {
			return err
		}

		// A reader with an open borrow of the book cannot also queue for it.
		var borrowing bool
		err = tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM borrows WHERE reader_id = $1 AND book_id = $2 AND return_date IS NULL)",
			hold.ReaderID, hold.BookID,
		).Scan(&borrowing)
		if err != nil {
			return fmt.Errorf("failed to check open borrow: %w", err)
		}
		if borrowing {
			return model.ErrAlreadyBorrowing
		}

		// An expired leftover hold must not block a fresh one.
		_, err = tx.Exec(ctx,
			"DELETE FROM hold_requests WHERE reader_id = $1 AND book_id = $2 AND expiry_date <= $3",
			hold.ReaderID, hold.BookID, hold.HoldDate,
		)
		if err != nil {
			return fmt.Errorf("failed to clear expired hold: %w", err)
		}

		borrows, holds, err := countClaims(ctx, tx, hold.BookID, hold.HoldDate)
		if err != nil {
			return err
		}
		if borrows+holds >= copies {
			return model.ErrNoCopiesAvailable
		}

		insertQuery := `
			INSERT INTO hold_requests (id, reader_id, book_id, hold_date, expiry_date)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err = tx.Exec(ctx, insertQuery,
			hold.ID,
			hold.ReaderID,
			hold.BookID,
			hold.HoldDate,
			hold.ExpiryDate,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				if pgErr.Code == "23505" { // unique_violation
					return model.ErrDuplicateHold
				}
				if pgErr.Code == "23503" { // foreign_key_violation
					return model.ErrReaderNotFound
				}
			}
			return fmt.Errorf("failed to insert hold: %w", err)
		}

		return nil
	})
}

// CreateBorrow implements RepositoryInterface.CreateBorrow
func (r *postgresRepository) CreateBorrow(ctx context.Context, borrow *model.Borrow) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		copies, err := lockBookCopies(ctx, tx, borrow.BookID)
		if err != nil {
			return err
		}

		// Consume the reader's hold if there is one. A consumed hold already
		// claims a copy, so promotion skips the capacity check and cannot be
		// starved by other holds.
		var consumedHold uuid.UUID
		promoted := true
		err = tx.QueryRow(ctx,
			"DELETE FROM hold_requests WHERE reader_id = $1 AND book_id = $2 AND expiry_date > $3 RETURNING id",
			borrow.ReaderID, borrow.BookID, borrow.BorrowDate,
		).Scan(&consumedHold)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to consume hold: %w", err)
			}
			promoted = false
		}

		if !promoted {
			borrows, holds, err := countClaims(ctx, tx, borrow.BookID, borrow.BorrowDate)
			if err != nil {
				return err
			}
			if borrows+holds >= copies {
				return model.ErrNoCopiesAvailable
			}
		}

		return insertBorrow(ctx, tx, borrow)
	})
}

// CreateBorrowFromHold implements RepositoryInterface.CreateBorrowFromHold
func (r *postgresRepository) CreateBorrowFromHold(ctx context.Context, borrow *model.Borrow, holdID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := lockBookCopies(ctx, tx, borrow.BookID); err != nil {
			return err
		}

		// The hold must still exist and be live when the borrow lands. A
		// hold that expired or was cancelled since it was looked up fails
		// the checkout instead of degrading into a plain borrow.
		var consumedReader uuid.UUID
		err := tx.QueryRow(ctx,
			"DELETE FROM hold_requests WHERE id = $1 AND expiry_date > $2 RETURNING reader_id",
			holdID, borrow.BorrowDate,
		).Scan(&consumedReader)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrHoldNotFound
			}
			return fmt.Errorf("failed to consume hold: %w", err)
		}

		// Capacity is not rechecked: the consumed hold already claimed a
		// copy, and the borrow takes its place.
		return insertBorrow(ctx, tx, borrow)
	})
}

func insertBorrow(ctx context.Context, tx pgx.Tx, borrow *model.Borrow) error {
	insertQuery := `
		INSERT INTO borrows (id, reader_id, book_id, staff_id, borrow_date, due_date, return_date)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
	`
	_, err := tx.Exec(ctx, insertQuery,
		borrow.ID,
		borrow.ReaderID,
		borrow.BookID,
		borrow.StaffID,
		borrow.BorrowDate,
		borrow.DueDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // partial unique index on open borrows
				return model.ErrAlreadyBorrowing
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				if pgErr.ConstraintName == "borrows_staff_id_fkey" {
					return model.ErrStaffNotFound
				}
				return model.ErrReaderNotFound
			}
		}
		return fmt.Errorf("failed to insert borrow: %w", err)
	}

	return nil
}

// ReturnBook implements RepositoryInterface.ReturnBook
func (r *postgresRepository) ReturnBook(ctx context.Context, borrowID uuid.UUID, returnedAt time.Time) (*model.Borrow, error) {
	query := `
		UPDATE borrows
		SET return_date = $2
		WHERE id = $1 AND return_date IS NULL
		RETURNING ` + borrowColumns

	borrow, err := scanBorrow(r.pool.QueryRow(ctx, query, borrowID, returnedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No rows affected means either:
			// 1. Record doesn't exist
			// 2. Borrow was already returned
			var exists bool
			checkQuery := "SELECT EXISTS(SELECT 1 FROM borrows WHERE id = $1)"
			checkErr := r.pool.QueryRow(ctx, checkQuery, borrowID).Scan(&exists)

			if checkErr != nil {
				return nil, fmt.Errorf("failed to check borrow existence: %w", checkErr)
			}

			if !exists {
				return nil, model.ErrBorrowNotFound
			}

			return nil, model.ErrAlreadyReturned
		}
		return nil, fmt.Errorf("failed to return borrow: %w", err)
	}

	return borrow, nil
}

// GetHoldByID implements RepositoryInterface.GetHoldByID
func (r *postgresRepository) GetHoldByID(ctx context.Context, id uuid.UUID, now time.Time) (*model.HoldRequest, error) {
	query := `
		SELECT id, reader_id, book_id, hold_date, expiry_date
		FROM hold_requests
		WHERE id = $1 AND expiry_date > $2
	`

	var hold model.HoldRequest
	err := r.pool.QueryRow(ctx, query, id, now).Scan(
		&hold.ID,
		&hold.ReaderID,
		&hold.BookID,
		&hold.HoldDate,
		&hold.ExpiryDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to get hold: %w", err)
	}

	return &hold, nil
}

// DeleteHold implements RepositoryInterface.DeleteHold
func (r *postgresRepository) DeleteHold(ctx context.Context, readerID, bookID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx,
		"DELETE FROM hold_requests WHERE reader_id = $1 AND book_id = $2",
		readerID, bookID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete hold: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListHoldsByReader implements RepositoryInterface.ListHoldsByReader
func (r *postgresRepository) ListHoldsByReader(ctx context.Context, readerID uuid.UUID, now time.Time) ([]model.HoldRequest, error) {
	query := `
		SELECT id, reader_id, book_id, hold_date, expiry_date
		FROM hold_requests
		WHERE reader_id = $1 AND expiry_date > $2
		ORDER BY hold_date DESC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, readerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list holds by reader: %w", err)
	}
	defer rows.Close()

	return collectHolds(rows)
}

// ListHolds implements RepositoryInterface.ListHolds
func (r *postgresRepository) ListHolds(ctx context.Context, now time.Time, page, limit int) ([]model.HoldRequest, int, error) {
	var totalCount int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM hold_requests WHERE expiry_date > $1", now,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count holds: %w", err)
	}

	query := `
		SELECT id, reader_id, book_id, hold_date, expiry_date
		FROM hold_requests
		WHERE expiry_date > $1
		ORDER BY hold_date DESC, id ASC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, query, now, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list holds: %w", err)
	}
	defer rows.Close()

	holds, err := collectHolds(rows)
	if err != nil {
		return nil, 0, err
	}

	return holds, totalCount, nil
}

func collectHolds(rows pgx.Rows) ([]model.HoldRequest, error) {
	holds := make([]model.HoldRequest, 0, 16)
	for rows.Next() {
		var h model.HoldRequest
		err := rows.Scan(
			&h.ID,
			&h.ReaderID,
			&h.BookID,
			&h.HoldDate,
			&h.ExpiryDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hold row: %w", err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hold rows: %w", err)
	}

	return holds, nil
}

// GetBorrow implements RepositoryInterface.GetBorrow
func (r *postgresRepository) GetBorrow(ctx context.Context, id uuid.UUID) (*model.Borrow, error) {
	query := "SELECT " + borrowColumns + " FROM borrows WHERE id = $1"

	borrow, err := scanBorrow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBorrowNotFound
		}
		return nil, fmt.Errorf("failed to get borrow: %w", err)
	}

	return borrow, nil
}

// ListBorrows implements RepositoryInterface.ListBorrows
func (r *postgresRepository) ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) ([]model.Borrow, int, error) {
	queryBuilder := "SELECT " + borrowColumns + " FROM borrows WHERE 1=1"
	countQuery := "SELECT COUNT(*) FROM borrows WHERE 1=1"

	args := []interface{}{}
	argCount := 1

	if filter.ReaderID != nil {
		queryBuilder += fmt.Sprintf(" AND reader_id = $%d", argCount)
		countQuery += fmt.Sprintf(" AND reader_id = $%d", argCount)
		args = append(args, *filter.ReaderID)
		argCount++
	}

	if filter.BookID != nil {
		queryBuilder += fmt.Sprintf(" AND book_id = $%d", argCount)
		countQuery += fmt.Sprintf(" AND book_id = $%d", argCount)
		args = append(args, *filter.BookID)
		argCount++
	}

	var totalCount int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count borrows: %w", err)
	}

	queryBuilder += " ORDER BY borrow_date DESC, id ASC"
	offset := (filter.Page - 1) * filter.Limit
	queryBuilder += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.pool.Query(ctx, queryBuilder, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list borrows: %w", err)
	}
	defer rows.Close()

	borrows, err := collectBorrows(rows, filter.Limit)
	if err != nil {
		return nil, 0, err
	}

	return borrows, totalCount, nil
}

// ListBorrowsByReader implements RepositoryInterface.ListBorrowsByReader
func (r *postgresRepository) ListBorrowsByReader(ctx context.Context, readerID uuid.UUID) ([]model.Borrow, error) {
	query := "SELECT " + borrowColumns + ` FROM borrows
		WHERE reader_id = $1
		ORDER BY borrow_date DESC, id ASC`

	rows, err := r.pool.Query(ctx, query, readerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrows by reader: %w", err)
	}
	defer rows.Close()

	return collectBorrows(rows, 16)
}

func collectBorrows(rows pgx.Rows, capacity int) ([]model.Borrow, error) {
	if capacity <= 0 {
		capacity = 16
	}
	borrows := make([]model.Borrow, 0, capacity)
	for rows.Next() {
		var b model.Borrow
		err := rows.Scan(
			&b.ID,
			&b.ReaderID,
			&b.BookID,
			&b.StaffID,
			&b.BorrowDate,
			&b.DueDate,
			&b.ReturnDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrow row: %w", err)
		}
		borrows = append(borrows, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating borrow rows: %w", err)
	}

	return borrows, nil
}

// CountActive implements RepositoryInterface.CountActive
func (r *postgresRepository) CountActive(ctx context.Context, bookID uuid.UUID, now time.Time) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM borrows WHERE book_id = $1 AND return_date IS NULL),
			(SELECT COUNT(*) FROM hold_requests WHERE book_id = $1 AND expiry_date > $2)
	`

	var borrows, holds int
	err := r.pool.QueryRow(ctx, query, bookID, now).Scan(&borrows, &holds)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count active claims: %w", err)
	}

	return borrows, holds, nil
}

// GetCopiesCount implements RepositoryInterface.GetCopiesCount
func (r *postgresRepository) GetCopiesCount(ctx context.Context, bookID uuid.UUID) (int, error) {
	var copies int
	err := r.pool.QueryRow(ctx,
		"SELECT copies_count FROM books WHERE id = $1", bookID,
	).Scan(&copies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrBookNotFound
		}
		return 0, fmt.Errorf("failed to get copies count: %w", err)
	}

	return copies, nil
}

// HasOpenBorrow implements RepositoryInterface.HasOpenBorrow
func (r *postgresRepository) HasOpenBorrow(ctx context.Context, readerID, bookID uuid.UUID) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM borrows WHERE reader_id = $1 AND book_id = $2 AND return_date IS NULL)"

	var exists bool
	err := r.pool.QueryRow(ctx, query, readerID, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open borrow: %w", err)
	}

	return exists, nil
}

// HasHold implements RepositoryInterface.HasHold
func (r *postgresRepository) HasHold(ctx context.Context, readerID, bookID uuid.UUID, now time.Time) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM hold_requests WHERE reader_id = $1 AND book_id = $2 AND expiry_date > $3)"

	var exists bool
	err := r.pool.QueryRow(ctx, query, readerID, bookID, now).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check hold: %w", err)
	}

	return exists, nil
}

// DeleteExpiredHolds implements RepositoryInterface.DeleteExpiredHolds
func (r *postgresRepository) DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		"DELETE FROM hold_requests WHERE expiry_date <= $1", now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired holds: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListOverdue implements RepositoryInterface.ListOverdue
func (r *postgresRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Borrow, error) {
	query := "SELECT " + borrowColumns + ` FROM borrows
		WHERE return_date IS NULL AND due_date < $1
		ORDER BY due_date ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue borrows: %w", err)
	}
	defer rows.Close()

	return collectBorrows(rows, 16)
}
