package dtc

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
	requests *InMemoryStore
	service  *Service
	ctx      context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.requests = NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.requests, audit.NewPublisher(audit.NewInMemoryStore(), logger))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	s.ctx = requestcontext.WithUserID(ctx, domain.UserID(42))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) createRequest(direction Direction) *Request {
	req, err := s.service.Create(s.ctx, CreateInput{
		CompanyID:     1,
		ShareholderID: 1,
		Direction:     direction,
		Shares:        75,
	})
	s.Require().NoError(err)
	return req
}

func (s *ServiceSuite) TestBulkUpdateStatus() {
	s.Run("moves every listed request to the target status", func() {
		a := s.createRequest(DirectionDeposit)
		b := s.createRequest(DirectionWithdrawal)

		count, err := s.service.BulkUpdateStatus(s.ctx, []domain.DTCRequestID{a.ID, b.ID}, StatusProcessing)
		s.Require().NoError(err)
		s.Equal(2, count)

		got, err := s.service.Get(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal(StatusProcessing, got.Status)
	})

	s.Run("allows moving backwards, no transition graph", func() {
		a := s.createRequest(DirectionDeposit)

		_, err := s.service.BulkUpdateStatus(s.ctx, []domain.DTCRequestID{a.ID}, StatusCompleted)
		s.Require().NoError(err)

		count, err := s.service.BulkUpdateStatus(s.ctx, []domain.DTCRequestID{a.ID}, StatusPending)
		s.Require().NoError(err)
		s.Equal(1, count)

		got, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(StatusPending, got.Status)
	})

	s.Run("nonexistent ids are skipped without failing the batch", func() {
		a := s.createRequest(DirectionDeposit)

		count, err := s.service.BulkUpdateStatus(s.ctx, []domain.DTCRequestID{a.ID, 9999}, StatusRejected)
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("rejects an unknown status", func() {
		a := s.createRequest(DirectionDeposit)

		_, err := s.service.BulkUpdateStatus(s.ctx, []domain.DTCRequestID{a.ID}, Status("archived"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects an empty batch", func() {
		_, err := s.service.BulkUpdateStatus(s.ctx, nil, StatusCompleted)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestCreateValidation() {
	s.Run("rejects an unknown direction", func() {
		_, err := s.service.Create(s.ctx, CreateInput{CompanyID: 1, ShareholderID: 1, Direction: "sideways", Shares: 10})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects non-positive shares", func() {
		_, err := s.service.Create(s.ctx, CreateInput{CompanyID: 1, ShareholderID: 1, Direction: DirectionDeposit, Shares: 0})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
