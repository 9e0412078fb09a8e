package shareholder

import (
	"context"
	"errors"

	"registrar/internal/audit"
	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

// Auditor is the slice of the audit publisher this service depends on.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service orchestrates shareholder accounts and the position-based delete
// guard.
type Service struct {
	shareholders Store
	holdings     HoldingStore
	auditor      Auditor
}

func NewService(shareholders Store, holdings HoldingStore, auditor Auditor) *Service {
	return &Service{
		shareholders: shareholders,
		holdings:     holdings,
		auditor:      auditor,
	}
}

func (s *Service) Create(ctx context.Context, companyID domain.CompanyID, name, email string) (*Shareholder, error) {
	sh, err := New(companyID, name, email, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.shareholders.Create(ctx, sh); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create shareholder")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &sh.CompanyID,
		Action:     audit.ActionCreate,
		EntityType: "shareholder",
		EntityID:   int64(sh.ID),
		NewValues:  audit.Marshal(sh),
	})
	return sh, nil
}

func (s *Service) Get(ctx context.Context, id domain.ShareholderID) (*Shareholder, error) {
	sh, err := s.shareholders.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return sh, nil
}

func (s *Service) ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Shareholder, error) {
	out, err := s.shareholders.ListByCompany(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list shareholders")
	}
	return out, nil
}

// Holdings returns the positions for one shareholder, oldest first.
func (s *Service) Holdings(ctx context.Context, id domain.ShareholderID) ([]*Holding, error) {
	if _, err := s.shareholders.FindByID(ctx, id); err != nil {
		return nil, translateStoreErr(err)
	}
	out, err := s.holdings.ListByShareholder(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list holdings")
	}
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id domain.ShareholderID, status Status) (*Shareholder, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid shareholder status %q", status)
	}
	sh, err := s.shareholders.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	prev := *sh
	sh.Status = status
	sh.UpdatedAt = requestcontext.Now(ctx)
	if err := s.shareholders.Update(ctx, sh); err != nil {
		return nil, translateStoreErr(err)
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &sh.CompanyID,
		Action:     audit.ActionUpdate,
		EntityType: "shareholder",
		EntityID:   int64(sh.ID),
		OldValues:  audit.Marshal(prev),
		NewValues:  audit.Marshal(sh),
	})
	return sh, nil
}

// Delete removes a shareholder after the position guard: an account whose
// holdings still sum to more than zero shares stays on the register. The
// caller resolves the guard by transferring the shares out, then retries.
func (s *Service) Delete(ctx context.Context, id domain.ShareholderID) error {
	sh, err := s.shareholders.FindByID(ctx, id)
	if err != nil {
		return translateStoreErr(err)
	}

	sum, err := s.holdings.SumShares(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check shareholder holdings")
	}
	if sum > 0 {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"cannot delete shareholder with outstanding shares; transfer all holdings first")
	}

	if err := s.shareholders.Delete(ctx, id); err != nil {
		return translateStoreErr(err)
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &sh.CompanyID,
		Action:     audit.ActionDelete,
		EntityType: "shareholder",
		EntityID:   int64(id),
		OldValues:  audit.Marshal(sh),
	})
	return nil
}

func translateStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "shareholder not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}
