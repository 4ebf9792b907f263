package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

// Permissions is the effective permission set of one user on one unit.
type Permissions struct {
	CanView           bool                 `json:"can_view"`
	CanViewMembers    bool                 `json:"can_view_members"`
	CanInvite         bool                 `json:"can_invite"`
	CanManageMembers  bool                 `json:"can_manage_members"`
	CanCreateChild    bool                 `json:"can_create_child"`
	AllowedChildTypes []models.OrgUnitType `json:"allowed_child_types"`
	IsCoordinator     bool                 `json:"is_coordinator"`
	IsMember          bool                 `json:"is_member"`
}

// PermissionService resolves per-unit visibility and administrative rights.
//
// Administrative authority (invite, manage members) is scoped to the exact
// unit: a coordinator of a sector has no such rights on its ministries and
// vice versa. Visibility has exactly one inheritance rule: membership in a
// MINISTRY grants read-only visibility of its parent SECTOR.
type PermissionService struct {
	membershipRepo repository.MembershipRepository
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(membershipRepo repository.MembershipRepository) *PermissionService {
	return &PermissionService{
		membershipRepo: membershipRepo,
	}
}

// IsCoordinator reports whether the user holds an ACTIVE COORDINATOR
// membership on the unit.
func (s *PermissionService) IsCoordinator(orgUnitID, userID uuid.UUID) (bool, error) {
	membership, err := s.membershipRepo.Find(orgUnitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check coordinator role: %w", err)
	}
	return membership.Status == models.MembershipActive && membership.Role == models.RoleCoordinator, nil
}

// IsMember reports whether the user holds any ACTIVE membership on the unit.
func (s *PermissionService) IsMember(orgUnitID, userID uuid.UUID) (bool, error) {
	membership, err := s.membershipRepo.Find(orgUnitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return membership.Status == models.MembershipActive, nil
}

// CanView computes effective content visibility for the unit: PUBLIC units
// are visible to everyone, RESTRICTED units to their members, and a
// RESTRICTED sector additionally to members of its ministries.
func (s *PermissionService) CanView(unit *models.OrgUnit, userID uuid.UUID) (bool, error) {
	if unit.Visibility == models.VisibilityPublic {
		return true, nil
	}

	member, err := s.IsMember(unit.ID, userID)
	if err != nil {
		return false, err
	}
	if member {
		return true, nil
	}

	if unit.Type == models.UnitSector {
		inherited, err := s.membershipRepo.HasMinistryMembershipUnder(userID, unit.ID)
		if err != nil {
			return false, fmt.Errorf("failed to check inherited visibility: %w", err)
		}
		return inherited, nil
	}

	return false, nil
}

// Resolve computes the full permission set of a user on a unit.
func (s *PermissionService) Resolve(unit *models.OrgUnit, userID uuid.UUID) (*Permissions, error) {
	membership, err := s.membershipRepo.Find(unit.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}

	isMember := membership != nil && membership.Status == models.MembershipActive
	isCoordinator := isMember && membership.Role == models.RoleCoordinator

	canView, err := s.CanView(unit, userID)
	if err != nil {
		return nil, err
	}

	allowedChildren := []models.OrgUnitType{}
	if isCoordinator {
		allowedChildren = models.AllowedChildren[unit.Type]
	}

	return &Permissions{
		CanView:           canView,
		CanViewMembers:    canView,
		CanInvite:         isCoordinator,
		CanManageMembers:  isCoordinator,
		CanCreateChild:    len(allowedChildren) > 0,
		AllowedChildTypes: allowedChildren,
		IsCoordinator:     isCoordinator,
		IsMember:          isMember,
	}, nil
}
