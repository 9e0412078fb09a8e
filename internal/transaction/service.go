package transaction

import (
	"context"
	"errors"
	"strings"

	"registrar/internal/audit"
	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

// Auditor is the slice of the audit publisher services depend on.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service manages transaction review, including the bulk approve and
// reject operators.
type Service struct {
	transactions Store
	auditor      Auditor
}

func NewService(transactions Store, auditor Auditor) *Service {
	return &Service{transactions: transactions, auditor: auditor}
}

type CreateInput struct {
	CompanyID domain.CompanyID
	Kind      string
	Shares    int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	in.Kind = strings.TrimSpace(in.Kind)
	if in.Kind == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "transaction kind is required")
	}
	if in.Shares <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "shares must be positive")
	}
	now := requestcontext.Now(ctx)
	t := &Transaction{
		CompanyID: in.CompanyID,
		Kind:      in.Kind,
		Shares:    in.Shares,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create transaction")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &t.CompanyID,
		Action:     audit.ActionCreate,
		EntityType: "transaction",
		EntityID:   int64(t.ID),
		NewValues:  audit.Marshal(t),
	})
	return t, nil
}

func (s *Service) Get(ctx context.Context, id domain.TransactionID) (*Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
	return t, nil
}

func (s *Service) ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Transaction, error) {
	out, err := s.transactions.ListByCompany(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return out, nil
}

// BulkApprove approves every transaction in ids, in input order, stamping
// the calling user as approver. The returned count is the number of rows
// that matched; ids that do not resolve are skipped without failing the
// batch.
func (s *Service) BulkApprove(ctx context.Context, ids []domain.TransactionID) (int, error) {
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "at least one transaction id is required")
	}
	now := requestcontext.Now(ctx)
	approver := requestcontext.UserID(ctx)
	count := 0
	for _, id := range ids {
		matched, err := s.transactions.ApproveByID(ctx, id, approver, now)
		if err != nil {
			return count, dErrors.Wrap(err, dErrors.CodeInternal, "failed to approve transaction")
		}
		if matched {
			count++
		}
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     approver,
		Action:     audit.ActionBulkUpdate,
		EntityType: "transaction",
		NewValues:  audit.Marshal(map[string]any{"ids": ids, "status": StatusApproved, "count": count}),
	})
	return count, nil
}

// BulkReject rejects every transaction in ids, storing reason when given.
func (s *Service) BulkReject(ctx context.Context, ids []domain.TransactionID, reason *string) (int, error) {
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "at least one transaction id is required")
	}
	now := requestcontext.Now(ctx)
	count := 0
	for _, id := range ids {
		matched, err := s.transactions.RejectByID(ctx, id, reason, now)
		if err != nil {
			return count, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject transaction")
		}
		if matched {
			count++
		}
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		Action:     audit.ActionBulkUpdate,
		EntityType: "transaction",
		NewValues:  audit.Marshal(map[string]any{"ids": ids, "status": StatusRejected, "count": count}),
	})
	return count, nil
}
