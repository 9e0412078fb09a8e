package invitation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"registrar/internal/audit"
	"registrar/internal/user"
	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	invitations *InMemoryStore
	users       *user.InMemoryStore
	service     *Service
	ctx         context.Context
	now         time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.invitations = NewInMemoryStore()
	s.users = user.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.invitations, s.users, audit.NewPublisher(audit.NewInMemoryStore(), logger))
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithUserID(ctx, domain.UserID(1))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// at shifts the request clock while keeping the caller identity.
func (s *ServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(s.ctx, t)
}

func (s *ServiceSuite) anonymousAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *ServiceSuite) invite(email string) *Invitation {
	inv, err := s.service.Create(s.ctx, CreateInput{Email: email, Role: domain.RoleStandard})
	s.Require().NoError(err)
	return inv
}

func (s *ServiceSuite) registerUser(email string) *user.User {
	u := &user.User{
		Email:     email,
		Name:      "Existing User",
		Role:      domain.RoleViewer,
		Status:    user.StatusActive,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *ServiceSuite) TestCreate() {
	s.Run("issues a pending invitation with a seven day default window", func() {
		inv := s.invite("new@example.com")
		s.Equal(StatusPending, inv.Status)
		s.NotEmpty(inv.Token)
		s.Equal(s.now.Add(7*24*time.Hour), inv.ExpiresAt)
		s.Equal(domain.UserID(1), inv.CreatedBy)
	})

	s.Run("conflict when a pending invitation exists for the email", func() {
		s.invite("dup@example.com")

		_, err := s.service.Create(s.ctx, CreateInput{Email: "DUP@example.com", Role: domain.RoleViewer})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("conflict when a user account already exists", func() {
		s.registerUser("taken@example.com")

		_, err := s.service.Create(s.ctx, CreateInput{Email: "taken@example.com", Role: domain.RoleStandard})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("a lapsed pending invitation does not block and is flipped", func() {
		old := s.invite("stale@example.com")

		afterExpiry := s.at(old.ExpiresAt.Add(time.Minute))
		fresh, err := s.service.Create(afterExpiry, CreateInput{Email: "stale@example.com", Role: domain.RoleStandard})
		s.Require().NoError(err)
		s.NotEqual(old.ID, fresh.ID)

		stored, err := s.invitations.FindByID(s.ctx, old.ID)
		s.Require().NoError(err)
		s.Equal(StatusExpired, stored.Status)
	})

	s.Run("rejects an invalid role", func() {
		_, err := s.service.Create(s.ctx, CreateInput{Email: "x@example.com", Role: "owner"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestLazyExpiry() {
	s.Run("GetByToken flips a lapsed pending row before reporting", func() {
		inv := s.invite("lazy@example.com")

		afterExpiry := s.at(inv.ExpiresAt.Add(time.Second))
		got, err := s.service.GetByToken(afterExpiry, inv.Token)
		s.Require().NoError(err)
		s.Equal(StatusExpired, got.Status)

		// the flip must be persisted, not just reported
		stored, err := s.invitations.FindByID(s.ctx, inv.ID)
		s.Require().NoError(err)
		s.Equal(StatusExpired, stored.Status)
	})

	s.Run("GetByToken leaves a live pending row untouched", func() {
		inv := s.invite("live@example.com")

		got, err := s.service.GetByToken(s.at(inv.ExpiresAt.Add(-time.Hour)), inv.Token)
		s.Require().NoError(err)
		s.Equal(StatusPending, got.Status)
	})

	s.Run("List reports effective status without rewriting rows", func() {
		inv := s.invite("listed@example.com")

		out, err := s.service.List(s.at(inv.ExpiresAt.Add(time.Minute)))
		s.Require().NoError(err)
		var listed *Invitation
		for _, candidate := range out {
			if candidate.ID == inv.ID {
				listed = candidate
			}
		}
		s.Require().NotNil(listed)
		s.Equal(StatusExpired, listed.Status)

		stored, err := s.invitations.FindByID(s.ctx, inv.ID)
		s.Require().NoError(err)
		s.Equal(StatusPending, stored.Status)
	})
}

func (s *ServiceSuite) TestAccept() {
	s.Run("authenticated accept applies role and company to the user", func() {
		u := s.registerUser("member@example.com")
		cid := domain.CompanyID(5)
		inv, err := s.service.Create(s.ctx, CreateInput{
			Email:     "invitee@example.com",
			Role:      domain.RoleAdmin,
			CompanyID: &cid,
		})
		s.Require().NoError(err)

		asUser := requestcontext.WithUserID(s.at(s.now), u.ID)
		result, err := s.service.Accept(asUser, inv.Token)
		s.Require().NoError(err)
		s.False(result.RequiresLogin)
		s.Equal(StatusAccepted, result.Invitation.Status)
		s.Require().NotNil(result.Invitation.AcceptedBy)
		s.Equal(u.ID, *result.Invitation.AcceptedBy)

		updated, err := s.users.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(domain.RoleAdmin, updated.Role)
		s.Require().NotNil(updated.CompanyID)
		s.Equal(cid, *updated.CompanyID)
	})

	s.Run("anonymous accept reports requires login and mutates nothing", func() {
		inv := s.invite("anon@example.com")

		result, err := s.service.Accept(s.anonymousAt(s.now), inv.Token)
		s.Require().NoError(err)
		s.True(result.RequiresLogin)

		stored, err := s.invitations.FindByID(s.ctx, inv.ID)
		s.Require().NoError(err)
		s.Equal(StatusPending, stored.Status)
		s.Nil(stored.AcceptedBy)
	})

	s.Run("second accept of the same token conflicts", func() {
		u := s.registerUser("once@example.com")
		inv := s.invite("single@example.com")

		asUser := requestcontext.WithUserID(s.at(s.now), u.ID)
		_, err := s.service.Accept(asUser, inv.Token)
		s.Require().NoError(err)

		_, err = s.service.Accept(asUser, inv.Token)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("expired invitation conflicts and the flip is persisted", func() {
		u := s.registerUser("late@example.com")
		inv := s.invite("window@example.com")

		asUser := requestcontext.WithUserID(s.at(inv.ExpiresAt.Add(time.Minute)), u.ID)
		_, err := s.service.Accept(asUser, inv.Token)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		stored, err := s.invitations.FindByID(s.ctx, inv.ID)
		s.Require().NoError(err)
		s.Equal(StatusExpired, stored.Status)
	})

	s.Run("revoked invitation conflicts", func() {
		u := s.registerUser("revoked@example.com")
		inv := s.invite("gone@example.com")
		_, err := s.service.Revoke(s.ctx, inv.ID)
		s.Require().NoError(err)

		asUser := requestcontext.WithUserID(s.at(s.now), u.ID)
		_, err = s.service.Accept(asUser, inv.Token)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown token is not found", func() {
		_, err := s.service.Accept(s.ctx, "no-such-token")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestResend() {
	s.Run("rotates the token and resets the window", func() {
		inv := s.invite("resend@example.com")
		oldToken := inv.Token

		later := s.at(s.now.Add(3 * 24 * time.Hour))
		resent, err := s.service.Resend(later, inv.ID)
		s.Require().NoError(err)
		s.NotEqual(oldToken, resent.Token)
		s.Equal(s.now.Add((3+7)*24*time.Hour), resent.ExpiresAt)

		// the old link must stop resolving
		_, err = s.service.GetByToken(s.ctx, oldToken)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		got, err := s.service.GetByToken(s.ctx, resent.Token)
		s.Require().NoError(err)
		s.Equal(inv.ID, got.ID)
	})

	s.Run("cannot resend a revoked invitation", func() {
		inv := s.invite("noresend@example.com")
		_, err := s.service.Revoke(s.ctx, inv.ID)
		s.Require().NoError(err)

		_, err = s.service.Resend(s.ctx, inv.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("cannot resend a lapsed invitation", func() {
		inv := s.invite("lapsed@example.com")

		_, err := s.service.Resend(s.at(inv.ExpiresAt.Add(time.Minute)), inv.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestRevoke() {
	s.Run("revokes a pending invitation", func() {
		inv := s.invite("revoke@example.com")

		revoked, err := s.service.Revoke(s.ctx, inv.ID)
		s.Require().NoError(err)
		s.Equal(StatusRevoked, revoked.Status)
	})

	s.Run("revoke is terminal", func() {
		inv := s.invite("terminal@example.com")
		_, err := s.service.Revoke(s.ctx, inv.ID)
		s.Require().NoError(err)

		_, err = s.service.Revoke(s.ctx, inv.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}
