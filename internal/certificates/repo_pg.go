package certificates

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new certificate record. A unique-index violation on cert_id
// maps to ErrDuplicateID; the index is the source of truth for duplicates.
func (r *PGRepo) Create(ctx context.Context, cert Certificate) error {
	const query = `
INSERT INTO certificates (
    id,
    cert_id,
    name,
    issue_date,
    expiry_date,
    user_id,
    file_path,
    file_url,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var expiry sql.NullTime
	if cert.ExpiryDate != nil {
		expiry = sql.NullTime{Time: *cert.ExpiryDate, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		cert.ID,
		cert.CertID,
		cert.HolderName,
		cert.IssueDate,
		expiry,
		cert.UserID,
		cert.FilePath,
		cert.FileURL,
		cert.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// GetByCertID performs an exact, case-sensitive lookup on the unique cert_id.
func (r *PGRepo) GetByCertID(ctx context.Context, certID string) (Certificate, error) {
	const query = `
SELECT id, cert_id, name, issue_date, expiry_date, user_id, file_path, file_url, created_at
FROM certificates
WHERE cert_id = $1
LIMIT 1`

	var cert Certificate
	var expiry sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, certID).Scan(
		&cert.ID,
		&cert.CertID,
		&cert.HolderName,
		&cert.IssueDate,
		&expiry,
		&cert.UserID,
		&cert.FilePath,
		&cert.FileURL,
		&cert.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Certificate{}, ErrNotFound
		}
		return Certificate{}, err
	}
	if expiry.Valid {
		cert.ExpiryDate = &expiry.Time
	}
	return cert, nil
}

// ListByUser lists a user's records, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Certificate, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, cert_id, name, issue_date, expiry_date, user_id, file_path, file_url, created_at
FROM certificates
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Certificate
	for rows.Next() {
		var cert Certificate
		var expiry sql.NullTime
		if err := rows.Scan(
			&cert.ID,
			&cert.CertID,
			&cert.HolderName,
			&cert.IssueDate,
			&expiry,
			&cert.UserID,
			&cert.FilePath,
			&cert.FileURL,
			&cert.CreatedAt,
		); err != nil {
			return nil, err
		}
		if expiry.Valid {
			cert.ExpiryDate = &expiry.Time
		}
		out = append(out, cert)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
