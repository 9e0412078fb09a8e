package certificate

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

// Service manages certificate records and the bulk cancellation operator.
type Service struct {
	certificates Store
	auditor      Auditor
}

func NewService(certificates Store, auditor Auditor) *Service {
	return &Service{certificates: certificates, auditor: auditor}
}

type CreateInput struct {
	ShareholderID domain.ShareholderID
	ShareClassID  domain.ShareClassID
	Number        string
	Shares        int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Certificate, error) {
	in.Number = strings.TrimSpace(in.Number)
	if in.Number == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "certificate number is required")
	}
	if in.Shares <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "shares must be positive")
	}
	now := requestcontext.Now(ctx)
	c := &Certificate{
		ShareholderID: in.ShareholderID,
		ShareClassID:  in.ShareClassID,
		Number:        in.Number,
		Shares:        in.Shares,
		Status:        StatusActive,
		IssueDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.certificates.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create certificate")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		Action:     audit.ActionCreate,
		EntityType: "certificate",
		EntityID:   int64(c.ID),
		NewValues:  audit.Marshal(c),
	})
	return c, nil
}

func (s *Service) Get(ctx context.Context, id domain.CertificateID) (*Certificate, error) {
	c, err := s.certificates.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
	return c, nil
}

func (s *Service) ListByShareholder(ctx context.Context, id domain.ShareholderID) ([]*Certificate, error) {
	out, err := s.certificates.ListByShareholder(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list certificates")
	}
	return out, nil
}

// BulkCancel cancels every certificate in ids, in input order, and returns
// the number of rows that matched an existing certificate. Ids that do not
// resolve are skipped without failing the batch, and re-cancelling an
// already cancelled certificate counts as matched while keeping its
// original cancel date.
func (s *Service) BulkCancel(ctx context.Context, ids []domain.CertificateID) (int, error) {
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "at least one certificate id is required")
	}
	now := requestcontext.Now(ctx)
	count := 0
	for _, id := range ids {
		matched, err := s.certificates.CancelByID(ctx, id, now)
		if err != nil {
			return count, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel certificate")
		}
		if matched {
			count++
		}
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		Action:     audit.ActionBulkUpdate,
		EntityType: "certificate",
		NewValues:  audit.Marshal(map[string]any{"ids": ids, "status": StatusCancelled, "count": count}),
	})
	return count, nil
}
