package transaction

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
	transactions *InMemoryStore
	service      *Service
	ctx          context.Context
	now          time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.transactions = NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.transactions, audit.NewPublisher(audit.NewInMemoryStore(), logger))
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithUserID(ctx, domain.UserID(42))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) createTransaction() *Transaction {
	t, err := s.service.Create(s.ctx, CreateInput{CompanyID: 1, Kind: "transfer", Shares: 50})
	s.Require().NoError(err)
	return t
}

func (s *ServiceSuite) TestBulkApprove() {
	s.Run("approves and stamps the reviewing user", func() {
		a := s.createTransaction()
		b := s.createTransaction()

		count, err := s.service.BulkApprove(s.ctx, []domain.TransactionID{a.ID, b.ID})
		s.Require().NoError(err)
		s.Equal(2, count)

		got, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(StatusApproved, got.Status)
		s.Require().NotNil(got.ApprovedBy)
		s.Equal(domain.UserID(42), *got.ApprovedBy)
		s.Require().NotNil(got.ApprovedAt)
		s.Equal(s.now, *got.ApprovedAt)
	})

	s.Run("re-approval keeps the original reviewer stamp", func() {
		a := s.createTransaction()

		_, err := s.service.BulkApprove(s.ctx, []domain.TransactionID{a.ID})
		s.Require().NoError(err)

		otherUser := requestcontext.WithUserID(s.ctx, domain.UserID(7))
		later := requestcontext.WithTime(otherUser, s.now.Add(time.Hour))
		count, err := s.service.BulkApprove(later, []domain.TransactionID{a.ID})
		s.Require().NoError(err)
		s.Equal(1, count)

		got, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(domain.UserID(42), *got.ApprovedBy)
		s.Equal(s.now, *got.ApprovedAt)
	})

	s.Run("nonexistent ids are skipped without failing the batch", func() {
		a := s.createTransaction()

		count, err := s.service.BulkApprove(s.ctx, []domain.TransactionID{9999, a.ID})
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("rejects an empty batch", func() {
		_, err := s.service.BulkApprove(s.ctx, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestBulkReject() {
	s.Run("rejects with a reason", func() {
		a := s.createTransaction()
		reason := "signature mismatch"

		count, err := s.service.BulkReject(s.ctx, []domain.TransactionID{a.ID}, &reason)
		s.Require().NoError(err)
		s.Equal(1, count)

		got, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(StatusRejected, got.Status)
		s.Require().NotNil(got.RejectReason)
		s.Equal(reason, *got.RejectReason)
	})

	s.Run("reason is optional", func() {
		a := s.createTransaction()

		count, err := s.service.BulkReject(s.ctx, []domain.TransactionID{a.ID}, nil)
		s.Require().NoError(err)
		s.Equal(1, count)

		got, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(StatusRejected, got.Status)
		s.Nil(got.RejectReason)
	})

	s.Run("rejects an empty batch", func() {
		_, err := s.service.BulkReject(s.ctx, nil, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
