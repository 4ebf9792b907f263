package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/models"
)

// OrgUnitDTO is the flat representation of an org unit.
type OrgUnitDTO struct {
	ID           uuid.UUID            `json:"id"`
	Type         models.OrgUnitType   `json:"type"`
	GroupSubtype *models.GroupSubtype `json:"group_subtype,omitempty"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description,omitempty"`
	Visibility   models.Visibility    `json:"visibility"`
	IsActive     bool                 `json:"is_active"`
	ParentID     *uuid.UUID           `json:"parent_id,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ToOrgUnitDTO converts a unit to its flat representation.
func ToOrgUnitDTO(unit models.OrgUnit) OrgUnitDTO {
	return OrgUnitDTO{
		ID:           unit.ID,
		Type:         unit.Type,
		GroupSubtype: unit.GroupSubtype,
		Name:         unit.Name,
		Slug:         unit.Slug,
		Description:  unit.Description,
		Visibility:   unit.Visibility,
		IsActive:     unit.IsActive,
		ParentID:     unit.ParentID,
		CreatedAt:    unit.CreatedAt,
	}
}

// MemberDTO represents one member of a unit.
type MemberDTO struct {
	UserID   uuid.UUID               `json:"user_id"`
	UserName string                  `json:"user_name"`
	Username string                  `json:"username"`
	Role     models.OrgRole          `json:"role"`
	Status   models.MembershipStatus `json:"status"`
	JoinedAt time.Time               `json:"joined_at"`
}

// ToMemberDTO converts a membership (with User preloaded) to a member entry.
func ToMemberDTO(membership models.Membership) MemberDTO {
	return MemberDTO{
		UserID:   membership.UserID,
		UserName: membership.User.FullName,
		Username: membership.User.Username,
		Role:     membership.Role,
		Status:   membership.Status,
		JoinedAt: membership.JoinedAt,
	}
}

// MembershipDTO represents one of the caller's own memberships.
type MembershipDTO struct {
	ID          uuid.UUID          `json:"id"`
	OrgUnitID   uuid.UUID          `json:"org_unit_id"`
	OrgUnitName string             `json:"org_unit_name"`
	OrgUnitType models.OrgUnitType `json:"org_unit_type"`
	Role        models.OrgRole     `json:"role"`
	JoinedAt    time.Time          `json:"joined_at"`
}

// ToMembershipDTO converts a membership (with OrgUnit preloaded).
func ToMembershipDTO(membership models.Membership) MembershipDTO {
	return MembershipDTO{
		ID:          membership.ID,
		OrgUnitID:   membership.OrgUnitID,
		OrgUnitName: membership.OrgUnit.Name,
		OrgUnitType: membership.OrgUnit.Type,
		Role:        membership.Role,
		JoinedAt:    membership.JoinedAt,
	}
}
