package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/osa911/contact-api/internal/models"
)

const createSubmissionsTable = `
CREATE TABLE IF NOT EXISTS contact_submissions (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	phone       TEXT NOT NULL DEFAULT '',
	subject     TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL,
	ip_address  TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	referrer    TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_submissions_created_at_idx ON contact_submissions (created_at);`

const submissionColumns = `id, name, email, phone, subject, message, ip_address, user_agent, referrer, request_id, created_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// PostgresSubmissionRepository persists submissions in PostgreSQL.
type PostgresSubmissionRepository struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL through lib/pq and makes sure the
// submissions table exists
func OpenPostgres(ctx context.Context, dsn string) (SubmissionRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := NewPostgresSubmissionRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewPostgresSubmissionRepository wraps an open *sql.DB
func NewPostgresSubmissionRepository(db *sql.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

// Migrate creates the submissions table and index if missing
func (r *PostgresSubmissionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSubmissionsTable); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (`+submissionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Name, s.Email, s.Phone, s.Subject, s.Message,
		s.IPAddress, s.UserAgent, s.Referrer, s.RequestID, s.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM contact_submissions WHERE id = $1`, id)

	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

func (r *PostgresSubmissionRepository) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM contact_submissions ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresSubmissionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresSubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresSubmissionRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.Subject, &s.Message,
		&s.IPAddress, &s.UserAgent, &s.Referrer, &s.RequestID, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}
