package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/constants"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
	"github.com/eliasandraade/lumenplus-app/internal/utils"
)

var (
	ErrUnitNotFound           = errors.New("organization unit not found")
	ErrParentNotFound         = errors.New("parent unit not found")
	ErrParentInactive         = errors.New("parent unit is deactivated")
	ErrInvalidHierarchy       = errors.New("parent unit type does not permit this child type")
	ErrRootAlreadyExists      = errors.New("a general council already exists")
	ErrUnitPermissionDenied   = errors.New("user is not allowed to perform this action on the unit")
	ErrUnitNameRequired       = errors.New("unit name cannot be empty")
	ErrGroupSubtypeRequired   = errors.New("group subtype is required for groups")
	ErrGroupSubtypeNotAllowed = errors.New("group subtype is only valid for groups")
	ErrInvalidGroupSubtype    = errors.New("unknown group subtype")
)

// OrgUnitService owns the organizational tree: creation under the fixed
// hierarchy, tree assembly, and deactivation.
type OrgUnitService struct {
	unitRepo    repository.OrgUnitRepository
	userRepo    repository.UserRepository
	permissions *PermissionService
}

// NewOrgUnitService creates a new OrgUnitService.
func NewOrgUnitService(unitRepo repository.OrgUnitRepository, userRepo repository.UserRepository, permissions *PermissionService) *OrgUnitService {
	return &OrgUnitService{
		unitRepo:    unitRepo,
		userRepo:    userRepo,
		permissions: permissions,
	}
}

// CreateChildInput represents parameters to create a child unit.
type CreateChildInput struct {
	Name         string
	Description  string
	Visibility   models.Visibility
	Type         *models.OrgUnitType
	GroupSubtype *models.GroupSubtype
}

// TreeNode is one node of the assembled organizational tree. MemberCount is
// computed at read time rather than stored.
type TreeNode struct {
	Unit        models.OrgUnit `json:"unit"`
	MemberCount int64          `json:"member_count"`
	Children    []*TreeNode    `json:"children"`
}

// CreateRoot creates the single COUNCIL_GENERAL unit. Only users holding the
// DEV global role may do this, and only once.
func (s *OrgUnitService) CreateRoot(callerID uuid.UUID, input CreateChildInput) (*models.OrgUnit, error) {
	caller, err := s.userRepo.FindByID(callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitPermissionDenied
		}
		return nil, fmt.Errorf("failed to find caller: %w", err)
	}
	if caller.GlobalRole != models.GlobalRoleDev {
		return nil, ErrUnitPermissionDenied
	}

	if _, err := s.unitRepo.FindRoot(); err == nil {
		return nil, ErrRootAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing root: %w", err)
	}

	return s.create(callerID, nil, models.UnitCouncilGeneral, input)
}

// CreateChild creates a unit under parentID. The child type defaults to the
// parent's natural successor in the hierarchy (a SECTOR parent yields a
// MINISTRY unless a group subtype was given); an explicitly requested type is
// validated against the hierarchy table instead.
func (s *OrgUnitService) CreateChild(callerID, parentID uuid.UUID, input CreateChildInput) (*models.OrgUnit, error) {
	parent, err := s.unitRepo.FindByID(parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to find parent unit: %w", err)
	}
	if !parent.IsActive {
		return nil, ErrParentInactive
	}

	childType, err := resolveChildType(parent.Type, input)
	if err != nil {
		return nil, err
	}

	isCoordinator, err := s.permissions.IsCoordinator(parent.ID, callerID)
	if err != nil {
		return nil, err
	}
	if !isCoordinator {
		return nil, ErrUnitPermissionDenied
	}

	return s.create(callerID, &parent.ID, childType, input)
}

func resolveChildType(parentType models.OrgUnitType, input CreateChildInput) (models.OrgUnitType, error) {
	var childType models.OrgUnitType

	switch {
	case input.Type != nil:
		childType = *input.Type
	case input.GroupSubtype != nil:
		childType = models.UnitGroup
	default:
		allowed := models.AllowedChildren[parentType]
		if len(allowed) == 0 {
			return "", ErrInvalidHierarchy
		}
		childType = allowed[0]
	}

	if !models.CanHaveChild(parentType, childType) {
		return "", ErrInvalidHierarchy
	}

	if childType == models.UnitGroup {
		if input.GroupSubtype == nil {
			return "", ErrGroupSubtypeRequired
		}
		if !models.ValidGroupSubtype(*input.GroupSubtype) {
			return "", ErrInvalidGroupSubtype
		}
	} else if input.GroupSubtype != nil {
		return "", ErrGroupSubtypeNotAllowed
	}

	return childType, nil
}

func (s *OrgUnitService) create(callerID uuid.UUID, parentID *uuid.UUID, unitType models.OrgUnitType, input CreateChildInput) (*models.OrgUnit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrUnitNameRequired
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	slug, err := s.uniqueSlug(parentID, name)
	if err != nil {
		return nil, err
	}

	unit := &models.OrgUnit{
		Type:         unitType,
		GroupSubtype: input.GroupSubtype,
		Name:         name,
		Slug:         slug,
		Description:  input.Description,
		Visibility:   visibility,
		IsActive:     true,
		ParentID:     parentID,
		CreatedByID:  callerID,
	}

	coordinator := &models.Membership{
		UserID:   callerID,
		Role:     models.RoleCoordinator,
		Status:   models.MembershipActive,
		JoinedAt: time.Now(),
	}

	if err := s.unitRepo.CreateWithCoordinator(unit, coordinator); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	return unit, nil
}

// uniqueSlug derives a slug from the name, suffixing a counter until it is
// free among the parent's children.
func (s *OrgUnitService) uniqueSlug(parentID *uuid.UUID, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "unit"
	}

	slug := base
	for counter := 1; ; counter++ {
		taken, err := s.unitRepo.SlugExists(parentID, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// GetUnit returns a unit together with the caller's resolved permissions.
func (s *OrgUnitService) GetUnit(unitID, callerID uuid.UUID) (*models.OrgUnit, *Permissions, error) {
	unit, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUnitNotFound
		}
		return nil, nil, fmt.Errorf("failed to find unit: %w", err)
	}

	perms, err := s.permissions.Resolve(unit, callerID)
	if err != nil {
		return nil, nil, err
	}

	return unit, perms, nil
}

// GetTree assembles the active subtree below rootID (the COUNCIL_GENERAL when
// nil), annotating every node with its ACTIVE member count. All active units
// are fetched in one query and linked in memory; depth is capped at the five
// fixed hierarchy levels, so no unbounded recursion is possible.
func (s *OrgUnitService) GetTree(rootID *uuid.UUID) (*TreeNode, error) {
	units, err := s.unitRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	counts, err := s.unitRepo.CountActiveMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	nodes := make(map[uuid.UUID]*TreeNode, len(units))
	for _, unit := range units {
		nodes[unit.ID] = &TreeNode{
			Unit:        unit,
			MemberCount: counts[unit.ID],
			Children:    []*TreeNode{},
		}
	}

	var root *TreeNode
	if rootID != nil {
		var ok bool
		root, ok = nodes[*rootID]
		if !ok {
			return nil, ErrUnitNotFound
		}
	} else {
		for _, unit := range units {
			if unit.Type == models.UnitCouncilGeneral {
				root = nodes[unit.ID]
				break
			}
		}
		if root == nil {
			return nil, ErrUnitNotFound
		}
	}

	for _, unit := range units {
		if unit.ParentID == nil {
			continue
		}
		if parent, ok := nodes[*unit.ParentID]; ok {
			parent.Children = append(parent.Children, nodes[unit.ID])
		}
	}

	prune(root, constants.MaxHierarchyDepth)
	return root, nil
}

// prune drops children beyond the fixed level cap.
func prune(node *TreeNode, levels int) {
	if levels <= 1 {
		node.Children = []*TreeNode{}
		return
	}
	for _, child := range node.Children {
		prune(child, levels-1)
	}
}

// Deactivate marks a unit inactive. The subtree disappears from the tree but
// memberships are untouched. Units are never hard-deleted.
func (s *OrgUnitService) Deactivate(unitID, callerID uuid.UUID) (*models.OrgUnit, error) {
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
		return nil, ErrUnitPermissionDenied
	}

	unit.IsActive = false
	if err := s.unitRepo.Update(unit); err != nil {
		return nil, fmt.Errorf("failed to deactivate unit: %w", err)
	}

	return unit, nil
}
