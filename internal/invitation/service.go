package invitation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"registrar/internal/audit"
	"registrar/internal/user"
	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

// Auditor is the slice of the audit publisher services depend on.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

const defaultExpiryDays = 7

// Service owns the invitation lifecycle. Expiry is never swept by a
// background job; it is detected lazily whenever a row is read by token and
// persisted before being reported, so the stored state converges without a
// scheduler.
type Service struct {
	invitations Store
	users       user.Store
	auditor     Auditor
}

func NewService(invitations Store, users user.Store, auditor Auditor) *Service {
	return &Service{invitations: invitations, users: users, auditor: auditor}
}

type CreateInput struct {
	Email         string
	Role          domain.Role
	CompanyID     *domain.CompanyID
	Message       string
	ExpiresInDays int
}

// Create issues a new pending invitation. A live pending invitation for the
// same email, or an existing user account, is a conflict. A stored pending
// row that has already lapsed does not block; it is flipped to expired in
// passing.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !in.Role.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid role %q", in.Role)
	}
	days := in.ExpiresInDays
	if days <= 0 {
		days = defaultExpiryDays
	}
	now := requestcontext.Now(ctx)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "a user account already exists for this email")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing user")
	}

	existing, err := s.invitations.FindPendingByEmail(ctx, email)
	switch {
	case err == nil:
		if EffectiveStatus(existing, now) == StatusPending {
			return nil, dErrors.New(dErrors.CodeConflict, "a pending invitation already exists for this email")
		}
		existing.Status = StatusExpired
		existing.UpdatedAt = now
		if err := s.invitations.Update(ctx, existing); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire stale invitation")
		}
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check pending invitations")
	}

	inv := &Invitation{
		Email:     email,
		Role:      in.Role,
		CompanyID: in.CompanyID,
		Message:   strings.TrimSpace(in.Message),
		Token:     uuid.NewString(),
		Status:    StatusPending,
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
		CreatedBy: requestcontext.UserID(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "invitation token collision, retry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create invitation")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     inv.CreatedBy,
		CompanyID:  inv.CompanyID,
		Action:     audit.ActionInvite,
		EntityType: "invitation",
		EntityID:   int64(inv.ID),
		NewValues:  audit.Marshal(inv),
	})
	return inv, nil
}

// Resend rotates the token and resets the expiry window on a pending
// invitation. The old token stops resolving the moment the new one is
// stored.
func (s *Service) Resend(ctx context.Context, id domain.InvitationID) (*Invitation, error) {
	inv, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if status := EffectiveStatus(inv, now); status != StatusPending {
		return nil, dErrors.Newf(dErrors.CodeConflict, "cannot resend a %s invitation", status)
	}
	prev := *inv
	inv.Token = uuid.NewString()
	inv.ExpiresAt = now.Add(defaultExpiryDays * 24 * time.Hour)
	inv.UpdatedAt = now
	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resend invitation")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  inv.CompanyID,
		Action:     audit.ActionUpdate,
		EntityType: "invitation",
		EntityID:   int64(inv.ID),
		OldValues:  audit.Marshal(prev),
		NewValues:  audit.Marshal(inv),
	})
	return inv, nil
}

// Revoke moves a pending invitation to its terminal revoked state.
func (s *Service) Revoke(ctx context.Context, id domain.InvitationID) (*Invitation, error) {
	inv, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if status := EffectiveStatus(inv, now); status != StatusPending {
		return nil, dErrors.Newf(dErrors.CodeConflict, "cannot revoke a %s invitation", status)
	}
	prev := *inv
	inv.Status = StatusRevoked
	inv.UpdatedAt = now
	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke invitation")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     requestcontext.UserID(ctx),
		CompanyID:  inv.CompanyID,
		Action:     audit.ActionRevokeInvite,
		EntityType: "invitation",
		EntityID:   int64(inv.ID),
		OldValues:  audit.Marshal(prev),
		NewValues:  audit.Marshal(inv),
	})
	return inv, nil
}

// GetByToken resolves an invitation for the public landing page. A lapsed
// pending row is flipped to expired and persisted before it is reported, so
// the caller never sees a stale pending state.
func (s *Service) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	inv, err := s.invitations.FindByToken(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "invitation not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
	if err := s.flipIfLapsed(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// AcceptResult reports the outcome of an accept attempt. RequiresLogin is
// set when the caller presented no identity; nothing is mutated in that
// case.
type AcceptResult struct {
	Invitation    *Invitation `json:"invitation"`
	User          *user.User  `json:"user,omitempty"`
	RequiresLogin bool        `json:"requires_login"`
}

// Accept consumes a pending, unexpired invitation. An authenticated caller
// takes on the invited role and company and the invitation records who
// accepted and when. An anonymous caller gets RequiresLogin back with no
// state change, so the same token survives until they sign in.
func (s *Service) Accept(ctx context.Context, token string) (*AcceptResult, error) {
	inv, err := s.invitations.FindByToken(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "invitation not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}

	now := requestcontext.Now(ctx)
	switch EffectiveStatus(inv, now) {
	case StatusPending:
	case StatusExpired:
		if err := s.flipIfLapsed(ctx, inv); err != nil {
			return nil, err
		}
		return nil, dErrors.New(dErrors.CodeConflict, "invitation has expired")
	case StatusAccepted:
		return nil, dErrors.New(dErrors.CodeConflict, "invitation has already been accepted")
	case StatusRevoked:
		return nil, dErrors.New(dErrors.CodeConflict, "invitation has been revoked")
	}

	acceptor := requestcontext.UserID(ctx)
	if acceptor == 0 {
		return &AcceptResult{Invitation: inv, RequiresLogin: true}, nil
	}

	u, err := s.users.FindByID(ctx, acceptor)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "accepting user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load accepting user")
	}

	u.Role = inv.Role
	u.CompanyID = inv.CompanyID
	u.UpdatedAt = now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply invitation to user")
	}

	prev := *inv
	inv.Status = StatusAccepted
	inv.AcceptedBy = &u.ID
	at := now
	inv.AcceptedAt = &at
	inv.UpdatedAt = now
	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark invitation accepted")
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:     u.ID,
		CompanyID:  inv.CompanyID,
		Action:     audit.ActionAcceptInvite,
		EntityType: "invitation",
		EntityID:   int64(inv.ID),
		OldValues:  audit.Marshal(prev),
		NewValues:  audit.Marshal(inv),
	})
	return &AcceptResult{Invitation: inv, User: u}, nil
}

// Get returns an invitation by id with its effective status applied.
func (s *Service) Get(ctx context.Context, id domain.InvitationID) (*Invitation, error) {
	inv, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Status = EffectiveStatus(inv, requestcontext.Now(ctx))
	return inv, nil
}

// List reports every invitation with its effective status. The flip is
// applied at the read boundary only; rows are not rewritten here.
func (s *Service) List(ctx context.Context) ([]*Invitation, error) {
	out, err := s.invitations.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invitations")
	}
	now := requestcontext.Now(ctx)
	for _, inv := range out {
		inv.Status = EffectiveStatus(inv, now)
	}
	return out, nil
}

func (s *Service) findByID(ctx context.Context, id domain.InvitationID) (*Invitation, error) {
	inv, err := s.invitations.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "invitation not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
	return inv, nil
}

func (s *Service) flipIfLapsed(ctx context.Context, inv *Invitation) error {
	now := requestcontext.Now(ctx)
	if inv.Status != StatusPending || EffectiveStatus(inv, now) != StatusExpired {
		return nil
	}
	inv.Status = StatusExpired
	inv.UpdatedAt = now
	if err := s.invitations.Update(ctx, inv); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire invitation")
	}
	return nil
}
