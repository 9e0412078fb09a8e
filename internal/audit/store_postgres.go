package audit

import (
	"context"
	"database/sql"
	"fmt"

	"registrar/pkg/domain"
	txcontext "registrar/pkg/platform/tx"
)

// PostgresStore writes audit events to the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (user_id, company_id, action, entity_type, entity_id, old_values, new_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var companyID sql.NullInt64
	if event.CompanyID != nil {
		companyID = sql.NullInt64{Int64: int64(*event.CompanyID), Valid: true}
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		int64(event.UserID),
		companyID,
		string(event.Action),
		event.EntityType,
		event.EntityID,
		nullableJSON(event.OldValues),
		nullableJSON(event.NewValues),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Event, error) {
	query := `
		SELECT id, user_id, company_id, action, entity_type, entity_id, old_values, new_values, created_at
		FROM audit_events
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e         Event
			companyID sql.NullInt64
			oldVals   []byte
			newVals   []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &companyID, &e.Action, &e.EntityType, &e.EntityID, &oldVals, &newVals, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if companyID.Valid {
			cid := domain.CompanyID(companyID.Int64)
			e.CompanyID = &cid
		}
		e.OldValues = oldVals
		e.NewValues = newVals
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
