package certificate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	txcontext "registrar/pkg/platform/tx"
)

// PostgresStore persists certificates in the certificates table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, c *Certificate) error {
	query := `
		INSERT INTO certificates (shareholder_id, share_class_id, certificate_number, shares, status, issue_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		int64(c.ShareholderID), int64(c.ShareClassID), c.Number, c.Shares,
		string(c.Status), c.IssueDate, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.CertificateID) (*Certificate, error) {
	query := `
		SELECT id, shareholder_id, share_class_id, certificate_number, shares, status, issue_date, cancel_date, created_at, updated_at
		FROM certificates
		WHERE id = $1
	`
	var c Certificate
	err := s.execer(ctx).QueryRowContext(ctx, query, int64(id)).Scan(
		&c.ID, &c.ShareholderID, &c.ShareClassID, &c.Number, &c.Shares,
		&c.Status, &c.IssueDate, &c.CancelDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select certificate: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListByShareholder(ctx context.Context, id domain.ShareholderID) ([]*Certificate, error) {
	query := `
		SELECT id, shareholder_id, share_class_id, certificate_number, shares, status, issue_date, cancel_date, created_at, updated_at
		FROM certificates
		WHERE shareholder_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var out []*Certificate
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.ID, &c.ShareholderID, &c.ShareClassID, &c.Number, &c.Shares,
			&c.Status, &c.IssueDate, &c.CancelDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CancelByID keeps the first cancel_date so re-cancelling is a no-op
// state-wise.
func (s *PostgresStore) CancelByID(ctx context.Context, id domain.CertificateID, now time.Time) (bool, error) {
	query := `
		UPDATE certificates
		SET status = 'cancelled', cancel_date = COALESCE(cancel_date, $2), updated_at = $2
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(id), now)
	if err != nil {
		return false, fmt.Errorf("cancel certificate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel certificate rows: %w", err)
	}
	return n > 0, nil
}
