//go:build integration

package certificate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"registrar/internal/certificate"
	"registrar/pkg/domain"
	"registrar/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *certificate.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = certificate.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "certificates"))
}

func newTestCertificate(number string) *certificate.Certificate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &certificate.Certificate{
		ShareholderID: 1,
		ShareClassID:  1,
		Number:        number,
		Shares:        100,
		Status:        certificate.StatusActive,
		IssueDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *PostgresStoreSuite) TestCancelStampsOnce() {
	ctx := context.Background()
	c := newTestCertificate("CERT-INT-1")
	s.Require().NoError(s.store.Create(ctx, c))

	first := time.Now().UTC().Truncate(time.Microsecond)
	matched, err := s.store.CancelByID(ctx, c.ID, first)
	s.Require().NoError(err)
	s.True(matched)

	second := first.Add(24 * time.Hour)
	matched, err = s.store.CancelByID(ctx, c.ID, second)
	s.Require().NoError(err)
	s.True(matched)

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(certificate.StatusCancelled, found.Status)
	s.Require().NotNil(found.CancelDate)
	s.WithinDuration(first, *found.CancelDate, time.Millisecond)
	s.WithinDuration(second, found.UpdatedAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestCancelUnknownID() {
	matched, err := s.store.CancelByID(context.Background(), domain.CertificateID(424242), time.Now())
	s.Require().NoError(err)
	s.False(matched)
}

func (s *PostgresStoreSuite) TestListByShareholderOrdering() {
	ctx := context.Background()

	older := newTestCertificate("CERT-INT-2")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	s.Require().NoError(s.store.Create(ctx, older))

	newer := newTestCertificate("CERT-INT-3")
	s.Require().NoError(s.store.Create(ctx, newer))

	out, err := s.store.ListByShareholder(ctx, domain.ShareholderID(1))
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(newer.ID, out[0].ID)
	s.Equal(older.ID, out[1].ID)
}
