package shareholder

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"registrar/internal/audit"
	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	shareholders *InMemoryStore
	holdings     *InMemoryHoldingStore
	service      *Service
	ctx          context.Context
	now          time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.shareholders = NewInMemoryStore()
	s.holdings = NewInMemoryHoldingStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.shareholders, s.holdings, audit.NewPublisher(audit.NewInMemoryStore(), logger))
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithUserID(ctx, domain.UserID(42))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) createShareholder() *Shareholder {
	sh, err := s.service.Create(s.ctx, domain.CompanyID(1), "Pat Holder", "pat@example.com")
	s.Require().NoError(err)
	return sh
}

func (s *ServiceSuite) TestCreate() {
	s.Run("creates with active status", func() {
		sh := s.createShareholder()
		s.Equal(StatusActive, sh.Status)
		s.Equal(s.now, sh.CreatedAt)
	})

	s.Run("rejects whitespace-only name", func() {
		_, err := s.service.Create(s.ctx, domain.CompanyID(1), "  ", "pat@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestDeleteGuard() {
	s.Run("blocks delete while shares are outstanding", func() {
		sh := s.createShareholder()
		s.holdings.Put(&Holding{ShareholderID: sh.ID, ShareClassID: 1, Shares: 100})

		err := s.service.Delete(s.ctx, sh.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = s.service.Get(s.ctx, sh.ID)
		s.Require().NoError(err)
	})

	s.Run("sums across holdings", func() {
		sh := s.createShareholder()
		s.holdings.Put(&Holding{ShareholderID: sh.ID, ShareClassID: 1, Shares: 60})
		s.holdings.Put(&Holding{ShareholderID: sh.ID, ShareClassID: 2, Shares: 40})

		err := s.service.Delete(s.ctx, sh.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("allows delete when holdings sum to zero", func() {
		sh := s.createShareholder()
		s.holdings.Put(&Holding{ShareholderID: sh.ID, ShareClassID: 1, Shares: 0})

		s.Require().NoError(s.service.Delete(s.ctx, sh.ID))

		_, err := s.service.Get(s.ctx, sh.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("allows delete with no holdings at all", func() {
		sh := s.createShareholder()
		s.Require().NoError(s.service.Delete(s.ctx, sh.ID))
	})

	s.Run("not found for unknown id", func() {
		err := s.service.Delete(s.ctx, domain.ShareholderID(9999))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestHoldings() {
	s.Run("lists positions for an existing shareholder", func() {
		sh := s.createShareholder()
		s.holdings.Put(&Holding{ShareholderID: sh.ID, ShareClassID: 1, Shares: 25})

		out, err := s.service.Holdings(s.ctx, sh.ID)
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal(int64(25), out[0].Shares)
	})

	s.Run("not found for unknown shareholder", func() {
		_, err := s.service.Holdings(s.ctx, domain.ShareholderID(9999))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
