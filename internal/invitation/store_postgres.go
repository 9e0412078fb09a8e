package invitation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	txcontext "registrar/pkg/platform/tx"
)

// PostgresStore persists invitations in the invitations table.
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

const invitationColumns = `id, email, role, company_id, message, token, status, expires_at, accepted_by, accepted_at, created_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, inv *Invitation) error {
	query := `
		INSERT INTO invitations (email, role, company_id, message, token, status, expires_at, created_by, created_at, updated_at)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		inv.Email, string(inv.Role), companyIDArg(inv.CompanyID), inv.Message,
		inv.Token, string(inv.Status), inv.ExpiresAt, int64(inv.CreatedBy),
		inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.InvitationID) (*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return s.findOne(ctx, query, int64(id))
}

func (s *PostgresStore) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	return s.findOne(ctx, query, token)
}

func (s *PostgresStore) FindPendingByEmail(ctx context.Context, email string) (*Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE email = LOWER($1) AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.findOne(ctx, query, email)
}

func (s *PostgresStore) List(ctx context.Context) ([]*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var out []*Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, inv *Invitation) error {
	query := `
		UPDATE invitations
		SET token = $2, status = $3, expires_at = $4, accepted_by = $5, accepted_at = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		int64(inv.ID), inv.Token, string(inv.Status), inv.ExpiresAt,
		userIDArg(inv.AcceptedBy), inv.AcceptedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invitation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invitation rows: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*Invitation, error) {
	inv, err := scanInvitation(s.execer(ctx).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select invitation: %w", err)
	}
	return inv, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*Invitation, error) {
	var (
		inv        Invitation
		companyID  sql.NullInt64
		acceptedBy sql.NullInt64
		acceptedAt sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.Email, &inv.Role, &companyID, &inv.Message,
		&inv.Token, &inv.Status, &inv.ExpiresAt, &acceptedBy, &acceptedAt,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if companyID.Valid {
		cid := domain.CompanyID(companyID.Int64)
		inv.CompanyID = &cid
	}
	if acceptedBy.Valid {
		by := domain.UserID(acceptedBy.Int64)
		inv.AcceptedBy = &by
	}
	if acceptedAt.Valid {
		at := acceptedAt.Time
		inv.AcceptedAt = &at
	}
	return &inv, nil
}

func companyIDArg(id *domain.CompanyID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func userIDArg(id *domain.UserID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
