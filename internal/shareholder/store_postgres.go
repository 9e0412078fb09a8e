package shareholder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	txcontext "registrar/pkg/platform/tx"
)

// PostgresStore persists shareholders in the shareholders table.
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

func execer(ctx context.Context, db *sql.DB) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

func (s *PostgresStore) Create(ctx context.Context, sh *Shareholder) error {
	query := `
		INSERT INTO shareholders (company_id, name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := execer(ctx, s.db).QueryRowContext(ctx, query,
		int64(sh.CompanyID), sh.Name, sh.Email, string(sh.Status), sh.CreatedAt, sh.UpdatedAt,
	).Scan(&sh.ID)
	if err != nil {
		return fmt.Errorf("insert shareholder: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ShareholderID) (*Shareholder, error) {
	query := `
		SELECT id, company_id, name, email, status, created_at, updated_at
		FROM shareholders
		WHERE id = $1
	`
	var sh Shareholder
	err := execer(ctx, s.db).QueryRowContext(ctx, query, int64(id)).Scan(
		&sh.ID, &sh.CompanyID, &sh.Name, &sh.Email, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select shareholder: %w", err)
	}
	return &sh, nil
}

func (s *PostgresStore) ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Shareholder, error) {
	query := `
		SELECT id, company_id, name, email, status, created_at, updated_at
		FROM shareholders
		WHERE company_id = $1
		ORDER BY created_at DESC
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list shareholders: %w", err)
	}
	defer rows.Close()

	var out []*Shareholder
	for rows.Next() {
		var sh Shareholder
		if err := rows.Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.Email, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan shareholder: %w", err)
		}
		out = append(out, &sh)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByCompany(ctx context.Context, id domain.CompanyID) (int, error) {
	var count int
	err := execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shareholders WHERE company_id = $1`, int64(id),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count shareholders: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Update(ctx context.Context, sh *Shareholder) error {
	query := `
		UPDATE shareholders
		SET name = $2, email = $3, status = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := execer(ctx, s.db).ExecContext(ctx, query,
		int64(sh.ID), sh.Name, sh.Email, string(sh.Status), sh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shareholder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.ShareholderID) error {
	res, err := execer(ctx, s.db).ExecContext(ctx, `DELETE FROM shareholders WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete shareholder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// PostgresHoldingStore reads holdings from the holdings table.
type PostgresHoldingStore struct {
	db *sql.DB
}

func NewPostgresHoldingStore(db *sql.DB) *PostgresHoldingStore {
	return &PostgresHoldingStore{db: db}
}

func (s *PostgresHoldingStore) ListByShareholder(ctx context.Context, id domain.ShareholderID) ([]*Holding, error) {
	query := `
		SELECT id, shareholder_id, share_class_id, shares, restricted, created_at, updated_at
		FROM holdings
		WHERE shareholder_id = $1
		ORDER BY id
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var out []*Holding
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.ID, &h.ShareholderID, &h.ShareClassID, &h.Shares, &h.Restricted, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (s *PostgresHoldingStore) SumShares(ctx context.Context, id domain.ShareholderID) (int64, error) {
	var sum int64
	err := execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(shares), 0) FROM holdings WHERE shareholder_id = $1`, int64(id),
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum holdings: %w", err)
	}
	return sum, nil
}
