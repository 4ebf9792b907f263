package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgRole string

const (
	RoleMember      OrgRole = "MEMBER"
	RoleCoordinator OrgRole = "COORDINATOR"
)

type MembershipStatus string

const (
	MembershipActive MembershipStatus = "ACTIVE"
)

// Membership ties a user to an org unit with a per-unit role. The
// (user_id, org_unit_id) pair is unique; rows are created only through
// invite acceptance and hard-deleted on removal.
type Membership struct {
	ID        uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_unit" json:"user_id"`
	OrgUnitID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_unit" json:"org_unit_id"`
	Role      OrgRole          `gorm:"type:varchar(20);not null" json:"role"`
	Status    MembershipStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	InviteID  *uuid.UUID       `gorm:"type:uuid" json:"invite_id,omitempty"`
	JoinedAt  time.Time        `json:"joined_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrgUnit OrgUnit `gorm:"foreignKey:OrgUnitID" json:"org_unit,omitempty"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
