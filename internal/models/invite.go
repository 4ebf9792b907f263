package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteRejected InviteStatus = "REJECTED"
)

// Invite is a proposed membership. PENDING is the only non-terminal state;
// at most one PENDING invite exists per (org_unit_id, invited_user_id).
type Invite struct {
	ID              uuid.UUID    `gorm:"type:uuid;primarykey" json:"id"`
	OrgUnitID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"org_unit_id"`
	InvitedUserID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"invited_user_id"`
	InvitedByUserID uuid.UUID    `gorm:"type:uuid;not null" json:"invited_by_user_id"`
	Role            OrgRole      `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	Message         string       `gorm:"type:varchar(500)" json:"message,omitempty"`
	Status          InviteStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	RespondedAt     *time.Time   `json:"responded_at,omitempty"`
	ExpiresAt       *time.Time   `json:"expires_at,omitempty"`

	// Relations
	OrgUnit       OrgUnit `gorm:"foreignKey:OrgUnitID" json:"org_unit,omitempty"`
	InvitedUser   User    `gorm:"foreignKey:InvitedUserID" json:"invited_user,omitempty"`
	InvitedByUser User    `gorm:"foreignKey:InvitedByUserID" json:"invited_by_user,omitempty"`
}

func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the invite is past its expiry at the given time.
// Expiry is checked at use time; stale PENDING rows stay in storage.
func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}
