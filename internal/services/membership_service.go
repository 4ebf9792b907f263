package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

var (
	ErrMemberNotFound         = errors.New("member not found in this unit")
	ErrLastCoordinator        = errors.New("cannot leave the unit without a coordinator")
	ErrMemberPermissionDenied = errors.New("user is not allowed to manage this member")
	ErrInvalidRole            = errors.New("unknown role")
	ErrRestrictedUnit         = errors.New("unit is restricted")
)

// MembershipService manages the user-to-unit associations.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	unitRepo       repository.OrgUnitRepository
	permissions    *PermissionService
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(membershipRepo repository.MembershipRepository, unitRepo repository.OrgUnitRepository, permissions *PermissionService) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		unitRepo:       unitRepo,
		permissions:    permissions,
	}
}

// ListMembers returns a unit's ACTIVE members, coordinators first then by
// join date. A RESTRICTED unit's member list requires visibility on the unit.
func (s *MembershipService) ListMembers(unitID, callerID uuid.UUID) ([]models.Membership, error) {
	unit, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to find unit: %w", err)
	}

	canView, err := s.permissions.CanView(unit, callerID)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, ErrRestrictedUnit
	}

	members, err := s.membershipRepo.ListByUnit(unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// SetRole changes a member's role within a unit. Only coordinators of the
// unit may do this; the last coordinator cannot demote themself.
func (s *MembershipService) SetRole(unitID, targetUserID, callerID uuid.UUID, role models.OrgRole) (*models.Membership, error) {
	if role != models.RoleMember && role != models.RoleCoordinator {
		return nil, ErrInvalidRole
	}

	isCoordinator, err := s.permissions.IsCoordinator(unitID, callerID)
	if err != nil {
		return nil, err
	}
	if !isCoordinator {
		return nil, ErrMemberPermissionDenied
	}

	membership, err := s.membershipRepo.Find(unitID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if membership.Status != models.MembershipActive {
		return nil, ErrMemberNotFound
	}

	if targetUserID == callerID && role != models.RoleCoordinator {
		if err := s.ensureNotLastCoordinator(unitID); err != nil {
			return nil, err
		}
	}

	membership.Role = role
	if err := s.membershipRepo.Update(membership); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return membership, nil
}

// RemoveMember hard-deletes a membership. Coordinators of the unit may remove
// anyone; a member may remove themself (leave). Removal is deliberately not
// idempotent: a repeat call fails with ErrMemberNotFound. The last
// coordinator cannot be removed.
func (s *MembershipService) RemoveMember(unitID, targetUserID, callerID uuid.UUID) error {
	membership, err := s.membershipRepo.Find(unitID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	isSelf := targetUserID == callerID
	if !isSelf {
		isCoordinator, err := s.permissions.IsCoordinator(unitID, callerID)
		if err != nil {
			return err
		}
		if !isCoordinator {
			return ErrMemberPermissionDenied
		}
	}

	if membership.Role == models.RoleCoordinator {
		if err := s.ensureNotLastCoordinator(unitID); err != nil {
			return err
		}
	}

	removed, err := s.membershipRepo.Delete(unitID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if removed == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// MyMemberships returns the caller's ACTIVE memberships with their units.
func (s *MembershipService) MyMemberships(userID uuid.UUID) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

func (s *MembershipService) ensureNotLastCoordinator(unitID uuid.UUID) error {
	count, err := s.membershipRepo.CountCoordinators(unitID)
	if err != nil {
		return fmt.Errorf("failed to count coordinators: %w", err)
	}
	if count <= 1 {
		return ErrLastCoordinator
	}
	return nil
}
