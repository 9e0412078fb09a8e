package company

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

// Service orchestrates company lifecycle management, including the delete
// guard that keeps a company with registered shareholders on the books.
type Service struct {
	companies    Store
	shareholders ShareholderCounter
	auditor      Auditor
}

func NewService(companies Store, shareholders ShareholderCounter, auditor Auditor) *Service {
	return &Service{
		companies:    companies,
		shareholders: shareholders,
		auditor:      auditor,
	}
}

func (s *Service) Create(ctx context.Context, name, ticker string) (*Company, error) {
	c, err := New(name, ticker, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.companies.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &c.ID,
		Action:     audit.ActionCreate,
		EntityType: "company",
		EntityID:   int64(c.ID),
		NewValues:  audit.Marshal(c),
	})
	return c, nil
}

func (s *Service) Get(ctx context.Context, id domain.CompanyID) (*Company, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "company not found")
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*Company, error) {
	out, err := s.companies.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list companies")
	}
	return out, nil
}

// UpdateStatus moves a company to any valid status. There is no transition
// graph between company statuses; suspension and reinstatement are both
// admin decisions.
func (s *Service) UpdateStatus(ctx context.Context, id domain.CompanyID, status Status) (*Company, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid company status %q", status)
	}
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "company not found")
	}
	prev := *c
	c.Status = status
	c.UpdatedAt = requestcontext.Now(ctx)
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, translateStoreErr(err, "company not found")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &c.ID,
		Action:     audit.ActionUpdate,
		EntityType: "company",
		EntityID:   int64(c.ID),
		OldValues:  audit.Marshal(prev),
		NewValues:  audit.Marshal(c),
	})
	return c, nil
}

// Delete removes a company after checking the referential guard: a company
// that still owns shareholder accounts cannot be deleted. The guard reads
// dependent rows first, so a storage failure surfaces before any write.
func (s *Service) Delete(ctx context.Context, id domain.CompanyID) error {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return translateStoreErr(err, "company not found")
	}

	count, err := s.shareholders.CountByCompany(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check company shareholders")
	}
	if count > 0 {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"cannot delete company with existing shareholders; transfer or remove them first")
	}

	if err := s.companies.Delete(ctx, id); err != nil {
		return translateStoreErr(err, "company not found")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  &id,
		Action:     audit.ActionDelete,
		EntityType: "company",
		EntityID:   int64(id),
		OldValues:  audit.Marshal(c),
	})
	return nil
}

func translateStoreErr(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}
