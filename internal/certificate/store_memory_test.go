package certificate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

type CertificateStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func (s *CertificateStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestCertificateStoreSuite(t *testing.T) {
	suite.Run(t, new(CertificateStoreSuite))
}

func (s *CertificateStoreSuite) newCertificate(number string) *Certificate {
	return &Certificate{
		ShareholderID: 1,
		ShareClassID:  1,
		Number:        number,
		Shares:        100,
		Status:        StatusActive,
		IssueDate:     s.now,
		CreatedAt:     s.now,
		UpdatedAt:     s.now,
	}
}

func (s *CertificateStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds by id", func() {
		c := s.newCertificate("CERT-001")
		s.Require().NoError(s.store.Create(s.ctx, c))
		s.NotZero(c.ID)

		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.Number, found.Number)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, domain.CertificateID(9999))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CertificateStoreSuite) TestCancelByID() {
	s.Run("stamps cancel date on first cancel only", func() {
		c := s.newCertificate("CERT-002")
		s.Require().NoError(s.store.Create(s.ctx, c))

		matched, err := s.store.CancelByID(s.ctx, c.ID, s.now)
		s.Require().NoError(err)
		s.True(matched)

		later := s.now.Add(24 * time.Hour)
		matched, err = s.store.CancelByID(s.ctx, c.ID, later)
		s.Require().NoError(err)
		s.True(matched)

		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(StatusCancelled, found.Status)
		s.Require().NotNil(found.CancelDate)
		s.Equal(s.now, *found.CancelDate)
		s.Equal(later, found.UpdatedAt)
	})

	s.Run("unknown id is a silent no-op", func() {
		matched, err := s.store.CancelByID(s.ctx, domain.CertificateID(9999), s.now)
		s.Require().NoError(err)
		s.False(matched)
	})
}
