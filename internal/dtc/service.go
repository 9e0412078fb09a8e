package dtc

import (
	"context"
	"errors"

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

// Service manages DTC/DWAC requests and the bulk status operator.
type Service struct {
	requests Store
	auditor  Auditor
}

func NewService(requests Store, auditor Auditor) *Service {
	return &Service{requests: requests, auditor: auditor}
}

type CreateInput struct {
	CompanyID     domain.CompanyID
	ShareholderID domain.ShareholderID
	Direction     Direction
	Shares        int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Request, error) {
	if !in.Direction.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid direction %q", in.Direction)
	}
	if in.Shares <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "shares must be positive")
	}
	now := requestcontext.Now(ctx)
	req := &Request{
		CompanyID:     in.CompanyID,
		ShareholderID: in.ShareholderID,
		Direction:     in.Direction,
		Shares:        in.Shares,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create dtc request")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &req.CompanyID,
		Action:     audit.ActionCreate,
		EntityType: "dtc_request",
		EntityID:   int64(req.ID),
		NewValues:  audit.Marshal(req),
	})
	return req, nil
}

func (s *Service) Get(ctx context.Context, id domain.DTCRequestID) (*Request, error) {
	req, err := s.requests.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "dtc request not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
	return req, nil
}

func (s *Service) ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Request, error) {
	out, err := s.requests.ListByCompany(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list dtc requests")
	}
	return out, nil
}

// BulkUpdateStatus writes status to every request in ids, in input order.
// Any valid status is accepted; there is no transition graph, so a request
// may move backwards. The returned count is rows matched; ids that do not
// resolve are skipped without failing the batch.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []domain.DTCRequestID, status Status) (int, error) {
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "at least one dtc request id is required")
	}
	if !status.Valid() {
		return 0, dErrors.Newf(dErrors.CodeValidation, "invalid dtc request status %q", status)
	}
	now := requestcontext.Now(ctx)
	count := 0
	for _, id := range ids {
		matched, err := s.requests.UpdateStatusByID(ctx, id, status, now)
		if err != nil {
			return count, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dtc request")
		}
		if matched {
			count++
		}
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		Action:     audit.ActionBulkUpdate,
		EntityType: "dtc_request",
		NewValues:  audit.Marshal(map[string]any{"ids": ids, "status": status, "count": count}),
	})
	return count, nil
}
