package transaction

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

// PostgresStore persists transactions in the transactions table.
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

func (s *PostgresStore) Create(ctx context.Context, t *Transaction) error {
	query := `
		INSERT INTO transactions (company_id, kind, shares, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		int64(t.CompanyID), t.Kind, t.Shares, string(t.Status), t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.TransactionID) (*Transaction, error) {
	query := `
		SELECT id, company_id, kind, shares, status, approved_by, approved_at, reject_reason, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`
	t, err := scanTransaction(s.execer(ctx).QueryRowContext(ctx, query, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select transaction: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Transaction, error) {
	query := `
		SELECT id, company_id, kind, shares, status, approved_by, approved_at, reject_reason, created_at, updated_at
		FROM transactions
		WHERE company_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApproveByID keeps the first approver stamp so re-approving is a no-op
// state-wise.
func (s *PostgresStore) ApproveByID(ctx context.Context, id domain.TransactionID, approver domain.UserID, now time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = 'approved',
		    approved_by = COALESCE(approved_by, $2),
		    approved_at = COALESCE(approved_at, $3),
		    updated_at = $3
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(id), int64(approver), now)
	if err != nil {
		return false, fmt.Errorf("approve transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("approve transaction rows: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) RejectByID(ctx context.Context, id domain.TransactionID, reason *string, now time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = 'rejected',
		    reject_reason = COALESCE($2, reject_reason),
		    updated_at = $3
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(id), reason, now)
	if err != nil {
		return false, fmt.Errorf("reject transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reject transaction rows: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var (
		t          Transaction
		approvedBy sql.NullInt64
		approvedAt sql.NullTime
		reason     sql.NullString
	)
	err := row.Scan(&t.ID, &t.CompanyID, &t.Kind, &t.Shares, &t.Status,
		&approvedBy, &approvedAt, &reason, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		by := domain.UserID(approvedBy.Int64)
		t.ApprovedBy = &by
	}
	if approvedAt.Valid {
		at := approvedAt.Time
		t.ApprovedAt = &at
	}
	if reason.Valid {
		r := reason.String
		t.RejectReason = &r
	}
	return &t, nil
}
