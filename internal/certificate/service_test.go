package certificate

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
	certificates *InMemoryStore
	service      *Service
	ctx          context.Context
	now          time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.certificates = NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.certificates, audit.NewPublisher(audit.NewInMemoryStore(), logger))
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithUserID(ctx, domain.UserID(42))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) createCertificate(number string) *Certificate {
	c, err := s.service.Create(s.ctx, CreateInput{
		ShareholderID: 1,
		ShareClassID:  1,
		Number:        number,
		Shares:        100,
	})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) TestBulkCancel() {
	s.Run("cancels every listed certificate and stamps cancel date", func() {
		a := s.createCertificate("CERT-001")
		b := s.createCertificate("CERT-002")

		count, err := s.service.BulkCancel(s.ctx, []domain.CertificateID{a.ID, b.ID})
		s.Require().NoError(err)
		s.Equal(2, count)

		got, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(StatusCancelled, got.Status)
		s.Require().NotNil(got.CancelDate)
		s.Equal(s.now, *got.CancelDate)
	})

	s.Run("nonexistent ids are skipped without failing the batch", func() {
		a := s.createCertificate("CERT-003")

		count, err := s.service.BulkCancel(s.ctx, []domain.CertificateID{a.ID, 9999})
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("re-cancel counts as matched but keeps the original cancel date", func() {
		a := s.createCertificate("CERT-004")

		count, err := s.service.BulkCancel(s.ctx, []domain.CertificateID{a.ID})
		s.Require().NoError(err)
		s.Equal(1, count)

		first, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Require().NotNil(first.CancelDate)

		later := requestcontext.WithTime(s.ctx, s.now.Add(48*time.Hour))
		count, err = s.service.BulkCancel(later, []domain.CertificateID{a.ID})
		s.Require().NoError(err)
		s.Equal(1, count)

		second, err := s.service.Get(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(StatusCancelled, second.Status)
		s.Require().NotNil(second.CancelDate)
		s.Equal(*first.CancelDate, *second.CancelDate)
	})

	s.Run("rejects an empty batch", func() {
		_, err := s.service.BulkCancel(s.ctx, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

}

func (s *ServiceSuite) TestCreateValidation() {
	s.Run("rejects empty certificate number", func() {
		_, err := s.service.Create(s.ctx, CreateInput{ShareholderID: 1, ShareClassID: 1, Shares: 10})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects non-positive shares", func() {
		_, err := s.service.Create(s.ctx, CreateInput{ShareholderID: 1, ShareClassID: 1, Number: "C-1", Shares: 0})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
