package repository

import (
	"context"
	"errors"
	"fmt"

	"library-backend/internal/domains/account/model"

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

const readerColumns = "id, code, email, password_hash, full_name, phone, created_at, updated_at"

func scanReader(row pgx.Row) (*model.Reader, error) {
	var r model.Reader
	err := row.Scan(
		&r.ID,
		&r.Code,
		&r.Email,
		&r.PasswordHash,
		&r.FullName,
		&r.Phone,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReader implements Repository.CreateReader
func (r *postgresRepository) CreateReader(ctx context.Context, reader *model.Reader) error {
	query := `
		INSERT INTO readers (id, code, email, password_hash, full_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		reader.ID,
		reader.Code,
		reader.Email,
		reader.PasswordHash,
		reader.FullName,
		reader.Phone,
		reader.CreatedAt,
		reader.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert reader: %w", err)
	}

	return nil
}

// GetReaderByID implements Repository.GetReaderByID
func (r *postgresRepository) GetReaderByID(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	query := "SELECT " + readerColumns + " FROM readers WHERE id = $1"

	reader, err := scanReader(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReaderNotFound
		}
		return nil, fmt.Errorf("failed to get reader by id: %w", err)
	}

	return reader, nil
}

// GetReaderByEmail implements Repository.GetReaderByEmail
func (r *postgresRepository) GetReaderByEmail(ctx context.Context, email string) (*model.Reader, error) {
	query := "SELECT " + readerColumns + " FROM readers WHERE email = $1"

	reader, err := scanReader(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReaderNotFound
		}
		return nil, fmt.Errorf("failed to get reader by email: %w", err)
	}

	return reader, nil
}

// GetReaderByCode implements Repository.GetReaderByCode
func (r *postgresRepository) GetReaderByCode(ctx context.Context, code string) (*model.Reader, error) {
	query := "SELECT " + readerColumns + " FROM readers WHERE code = $1"

	reader, err := scanReader(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReaderNotFound
		}
		return nil, fmt.Errorf("failed to get reader by code: %w", err)
	}

	return reader, nil
}

// UpdateReader implements Repository.UpdateReader
func (r *postgresRepository) UpdateReader(ctx context.Context, reader *model.Reader) error {
	query := `
		UPDATE readers
		SET full_name = $2, phone = $3, password_hash = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		reader.ID,
		reader.FullName,
		reader.Phone,
		reader.PasswordHash,
	).Scan(&reader.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReaderNotFound
		}
		return fmt.Errorf("failed to update reader: %w", err)
	}

	return nil
}

// ListReaders implements Repository.ListReaders
func (r *postgresRepository) ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.Reader, int, error) {
	queryBuilder := "SELECT " + readerColumns + " FROM readers WHERE 1=1"
	countQuery := "SELECT COUNT(*) FROM readers WHERE 1=1"

	args := []interface{}{}
	argCount := 1

	if req.Search != "" {
		clause := fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d OR code = $%d)", argCount, argCount, argCount+1)
		queryBuilder += clause
		countQuery += clause
		args = append(args, "%"+req.Search+"%", req.Search)
		argCount += 2
	}

	var totalCount int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count readers: %w", err)
	}

	queryBuilder += " ORDER BY created_at DESC, id ASC"
	offset := (req.Page - 1) * req.Limit
	queryBuilder += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, req.Limit, offset)

	rows, err := r.pool.Query(ctx, queryBuilder, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list readers: %w", err)
	}
	defer rows.Close()

	readers := make([]model.Reader, 0, req.Limit)
	for rows.Next() {
		var reader model.Reader
		err := rows.Scan(
			&reader.ID,
			&reader.Code,
			&reader.Email,
			&reader.PasswordHash,
			&reader.FullName,
			&reader.Phone,
			&reader.CreatedAt,
			&reader.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan reader row: %w", err)
		}
		readers = append(readers, reader)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reader rows: %w", err)
	}

	return readers, totalCount, nil
}

const staffColumns = "id, username, password_hash, full_name, role, created_at, updated_at"

func scanStaff(row pgx.Row) (*model.Staff, error) {
	var s model.Staff
	err := row.Scan(
		&s.ID,
		&s.Username,
		&s.PasswordHash,
		&s.FullName,
		&s.Role,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStaff implements Repository.CreateStaff
func (r *postgresRepository) CreateStaff(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (id, username, password_hash, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		staff.ID,
		staff.Username,
		staff.PasswordHash,
		staff.FullName,
		staff.Role,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrUsernameAlreadyExists
		}
		return fmt.Errorf("failed to insert staff: %w", err)
	}

	return nil
}

// GetStaffByID implements Repository.GetStaffByID
func (r *postgresRepository) GetStaffByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := "SELECT " + staffColumns + " FROM staff WHERE id = $1"

	staff, err := scanStaff(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff by id: %w", err)
	}

	return staff, nil
}

// GetStaffByUsername implements Repository.GetStaffByUsername
func (r *postgresRepository) GetStaffByUsername(ctx context.Context, username string) (*model.Staff, error) {
	query := "SELECT " + staffColumns + " FROM staff WHERE username = $1"

	staff, err := scanStaff(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff by username: %w", err)
	}

	return staff, nil
}

// ListStaff implements Repository.ListStaff
func (r *postgresRepository) ListStaff(ctx context.Context) ([]model.Staff, error) {
	query := "SELECT " + staffColumns + " FROM staff ORDER BY username ASC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	staffList := make([]model.Staff, 0, 16)
	for rows.Next() {
		var s model.Staff
		err := rows.Scan(
			&s.ID,
			&s.Username,
			&s.PasswordHash,
			&s.FullName,
			&s.Role,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		staffList = append(staffList, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff rows: %w", err)
	}

	return staffList, nil
}
