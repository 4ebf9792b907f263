package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

var (
	ErrInviteNotFound         = errors.New("invite not found")
	ErrInvitedUserNotFound    = errors.New("invited user not found")
	ErrNotInvitedUser         = errors.New("this invite belongs to another user")
	ErrInviteNotPending       = errors.New("invite has already been responded to")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrAlreadyMember          = errors.New("user is already a member of this unit")
	ErrDuplicatePendingInvite = errors.New("a pending invite already exists for this user")
	ErrInvitePermissionDenied = errors.New("only coordinators can manage invites")
)

// InviteService drives the invitation lifecycle: PENDING is the only
// non-terminal state; accept and reject are one-shot transitions.
type InviteService struct {
	inviteRepo     repository.InviteRepository
	membershipRepo repository.MembershipRepository
	unitRepo       repository.OrgUnitRepository
	userRepo       repository.UserRepository
	permissions    *PermissionService
	expiry         time.Duration
}

// NewInviteService creates a new InviteService. expirationDays bounds how
// long a pending invite stays actionable.
func NewInviteService(
	inviteRepo repository.InviteRepository,
	membershipRepo repository.MembershipRepository,
	unitRepo repository.OrgUnitRepository,
	userRepo repository.UserRepository,
	permissions *PermissionService,
	expirationDays int,
) *InviteService {
	return &InviteService{
		inviteRepo:     inviteRepo,
		membershipRepo: membershipRepo,
		unitRepo:       unitRepo,
		userRepo:       userRepo,
		permissions:    permissions,
		expiry:         time.Duration(expirationDays) * 24 * time.Hour,
	}
}

// InviteInput represents parameters to create an invite.
type InviteInput struct {
	InvitedUserID uuid.UUID
	Role          models.OrgRole
	Message       string
}

// Invite creates a PENDING invite for a user on a unit. All checks run
// before the write: the caller must be able to invite on the unit, the
// target must exist, must not already be a member, and must not already
// have a pending invite there.
func (s *InviteService) Invite(unitID, callerID uuid.UUID, input InviteInput) (*models.Invite, error) {
	unit, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to find unit: %w", err)
	}

	isCoordinator, err := s.permissions.IsCoordinator(unit.ID, callerID)
	if err != nil {
		return nil, err
	}
	if !isCoordinator {
		return nil, ErrInvitePermissionDenied
	}

	if _, err := s.userRepo.FindByID(input.InvitedUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitedUserNotFound
		}
		return nil, fmt.Errorf("failed to find invited user: %w", err)
	}

	isMember, err := s.permissions.IsMember(unit.ID, input.InvitedUserID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	if _, err := s.inviteRepo.FindPending(unit.ID, input.InvitedUserID); err == nil {
		return nil, ErrDuplicatePendingInvite
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending invites: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleCoordinator {
		return nil, ErrInvalidRole
	}

	expiresAt := time.Now().Add(s.expiry)
	invite := &models.Invite{
		OrgUnitID:       unit.ID,
		InvitedUserID:   input.InvitedUserID,
		InvitedByUserID: callerID,
		Role:            role,
		Message:         strings.TrimSpace(input.Message),
		Status:          models.InvitePending,
		ExpiresAt:       &expiresAt,
	}

	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return invite, nil
}

// Accept converts a PENDING invite into an ACTIVE membership. The status
// flip and the membership insert happen in one transaction; under a
// concurrent double accept exactly one membership row exists afterwards and
// the loser sees ErrInviteNotPending or ErrAlreadyMember.
func (s *InviteService) Accept(inviteID, callerID uuid.UUID) (*models.Invite, *models.Membership, error) {
	invite, err := s.loadForResponse(inviteID, callerID)
	if err != nil {
		return nil, nil, err
	}

	membership, err := s.inviteRepo.Accept(invite, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotPending):
			return nil, nil, ErrInviteNotPending
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, nil, ErrAlreadyMember
		default:
			return nil, nil, fmt.Errorf("failed to accept invite: %w", err)
		}
	}

	return invite, membership, nil
}

// Reject marks a PENDING invite REJECTED. Terminal; no membership is created.
func (s *InviteService) Reject(inviteID, callerID uuid.UUID) (*models.Invite, error) {
	invite, err := s.loadForResponse(inviteID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.inviteRepo.Reject(invite, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, ErrInviteNotPending
		}
		return nil, fmt.Errorf("failed to reject invite: %w", err)
	}

	return invite, nil
}

// loadForResponse runs the shared accept/reject checks: the invite must
// exist, belong to the caller, be PENDING, and not be past its expiry.
func (s *InviteService) loadForResponse(inviteID, callerID uuid.UUID) (*models.Invite, error) {
	invite, err := s.inviteRepo.FindByID(inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	if invite.InvitedUserID != callerID {
		return nil, ErrNotInvitedUser
	}
	if invite.Status != models.InvitePending {
		return nil, ErrInviteNotPending
	}
	if invite.Expired(time.Now()) {
		return nil, ErrInviteExpired
	}

	return invite, nil
}

// MyInvites returns the caller's PENDING invites, newest first.
func (s *InviteService) MyInvites(userID uuid.UUID) ([]models.Invite, error) {
	invites, err := s.inviteRepo.ListPendingByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

// UnitInvites returns a unit's PENDING invites. Coordinators only.
func (s *InviteService) UnitInvites(unitID, callerID uuid.UUID) ([]models.Invite, error) {
	isCoordinator, err := s.permissions.IsCoordinator(unitID, callerID)
	if err != nil {
		return nil, err
	}
	if !isCoordinator {
		return nil, ErrInvitePermissionDenied
	}

	invites, err := s.inviteRepo.ListPendingByUnit(unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit invites: %w", err)
	}
	return invites, nil
}
