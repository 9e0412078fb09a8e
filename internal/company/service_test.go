package company

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"registrar/internal/audit"
	"registrar/internal/shareholder"
	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	companies    *InMemoryStore
	shareholders *shareholder.InMemoryStore
	auditStore   *audit.InMemoryStore
	service      *Service
	ctx          context.Context
	now          time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.companies = NewInMemoryStore()
	s.shareholders = shareholder.NewInMemoryStore()
	s.auditStore = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.companies, s.shareholders, audit.NewPublisher(s.auditStore, logger))
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithUserID(ctx, domain.UserID(42))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) createCompany(name string) *Company {
	c, err := s.service.Create(s.ctx, name, "TST")
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) TestCreate() {
	s.Run("creates with active status", func() {
		c := s.createCompany("Acme Transfer Co")
		s.Equal(StatusActive, c.Status)
		s.Equal(s.now, c.CreatedAt)
	})

	s.Run("rejects empty name", func() {
		_, err := s.service.Create(s.ctx, "  ", "TST")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestDeleteGuard() {
	s.Run("blocks delete while shareholders exist", func() {
		c := s.createCompany("Guarded Inc")
		sh := &shareholder.Shareholder{
			CompanyID: c.ID,
			Name:      "Pat Holder",
			Email:     "pat@example.com",
			Status:    shareholder.StatusActive,
			CreatedAt: s.now,
			UpdatedAt: s.now,
		}
		s.Require().NoError(s.shareholders.Create(s.ctx, sh))

		err := s.service.Delete(s.ctx, c.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		// the company must survive a refused delete
		_, err = s.service.Get(s.ctx, c.ID)
		s.Require().NoError(err)
	})

	s.Run("allows delete once shareholders are gone", func() {
		c := s.createCompany("Empty Inc")
		s.Require().NoError(s.service.Delete(s.ctx, c.ID))

		_, err := s.service.Get(s.ctx, c.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("not found for unknown id", func() {
		err := s.service.Delete(s.ctx, domain.CompanyID(9999))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdateStatus() {
	c := s.createCompany("Status Inc")

	s.Run("moves between any valid statuses", func() {
		updated, err := s.service.UpdateStatus(s.ctx, c.ID, StatusSuspended)
		s.Require().NoError(err)
		s.Equal(StatusSuspended, updated.Status)

		updated, err = s.service.UpdateStatus(s.ctx, c.ID, StatusActive)
		s.Require().NoError(err)
		s.Equal(StatusActive, updated.Status)
	})

	s.Run("rejects unknown status", func() {
		_, err := s.service.UpdateStatus(s.ctx, c.ID, Status("frozen"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestAuditTrail() {
	c := s.createCompany("Audited Inc")
	s.Require().NoError(s.service.Delete(s.ctx, c.ID))

	events, err := s.auditStore.ListByEntity(s.ctx, "company", int64(c.ID))
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionDelete, events[0].Action)
	s.Equal(audit.ActionCreate, events[1].Action)
	s.Equal(domain.UserID(42), events[0].UserID)
}
