//go:build integration

package invitation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"registrar/internal/invitation"
	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *invitation.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = invitation.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "invitations"))
}

func newTestInvitation(email string) *invitation.Invitation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &invitation.Invitation{
		Email:     email,
		Role:      domain.RoleStandard,
		Token:     uuid.NewString(),
		Status:    invitation.StatusPending,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedBy: 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	inv := newTestInvitation("round@example.com")
	cid := domain.CompanyID(9)
	inv.CompanyID = &cid

	s.Require().NoError(s.store.Create(ctx, inv))
	s.NotZero(inv.ID)

	found, err := s.store.FindByToken(ctx, inv.Token)
	s.Require().NoError(err)
	s.Equal(inv.Email, found.Email)
	s.Require().NotNil(found.CompanyID)
	s.Equal(cid, *found.CompanyID)
	s.WithinDuration(inv.ExpiresAt, found.ExpiresAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestDuplicateToken() {
	ctx := context.Background()
	a := newTestInvitation("a@example.com")
	s.Require().NoError(s.store.Create(ctx, a))

	b := newTestInvitation("b@example.com")
	b.Token = a.Token
	s.Require().ErrorIs(s.store.Create(ctx, b), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestFindPendingByEmailIsCaseInsensitive() {
	ctx := context.Background()
	inv := newTestInvitation("Case@Example.com")
	s.Require().NoError(s.store.Create(ctx, inv))

	found, err := s.store.FindPendingByEmail(ctx, "case@EXAMPLE.com")
	s.Require().NoError(err)
	s.Equal(inv.ID, found.ID)
}

func (s *PostgresStoreSuite) TestUpdatePersistsAcceptance() {
	ctx := context.Background()
	inv := newTestInvitation("accept@example.com")
	s.Require().NoError(s.store.Create(ctx, inv))

	by := domain.UserID(5)
	at := time.Now().UTC().Truncate(time.Microsecond)
	inv.Status = invitation.StatusAccepted
	inv.AcceptedBy = &by
	inv.AcceptedAt = &at
	inv.UpdatedAt = at
	s.Require().NoError(s.store.Update(ctx, inv))

	found, err := s.store.FindByID(ctx, inv.ID)
	s.Require().NoError(err)
	s.Equal(invitation.StatusAccepted, found.Status)
	s.Require().NotNil(found.AcceptedBy)
	s.Equal(by, *found.AcceptedBy)

	_, err = s.store.FindPendingByEmail(ctx, inv.Email)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateUnknownID() {
	inv := newTestInvitation("ghost@example.com")
	inv.ID = domain.InvitationID(424242)
	s.Require().ErrorIs(s.store.Update(context.Background(), inv), sentinel.ErrNotFound)
}
