package dtc

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

// PostgresStore persists DTC requests in the dtc_requests table.
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

func (s *PostgresStore) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO dtc_requests (company_id, shareholder_id, direction, shares, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		int64(req.CompanyID), int64(req.ShareholderID), string(req.Direction),
		req.Shares, string(req.Status), req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("insert dtc request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DTCRequestID) (*Request, error) {
	query := `
		SELECT id, company_id, shareholder_id, direction, shares, status, created_at, updated_at
		FROM dtc_requests
		WHERE id = $1
	`
	var req Request
	err := s.execer(ctx).QueryRowContext(ctx, query, int64(id)).Scan(
		&req.ID, &req.CompanyID, &req.ShareholderID, &req.Direction,
		&req.Shares, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select dtc request: %w", err)
	}
	return &req, nil
}

func (s *PostgresStore) ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Request, error) {
	query := `
		SELECT id, company_id, shareholder_id, direction, shares, status, created_at, updated_at
		FROM dtc_requests
		WHERE company_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list dtc requests: %w", err)
	}
	defer rows.Close()

	var out []*Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.CompanyID, &req.ShareholderID, &req.Direction,
			&req.Shares, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dtc request: %w", err)
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStatusByID(ctx context.Context, id domain.DTCRequestID, status Status, now time.Time) (bool, error) {
	query := `
		UPDATE dtc_requests
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(id), string(status), now)
	if err != nil {
		return false, fmt.Errorf("update dtc request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update dtc request rows: %w", err)
	}
	return n > 0, nil
}
