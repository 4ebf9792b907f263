package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/models"
)

// InviteDTO is the detailed representation of an invite.
type InviteDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrgUnitID       uuid.UUID           `json:"org_unit_id"`
	OrgUnitName     string              `json:"org_unit_name,omitempty"`
	OrgUnitType     models.OrgUnitType  `json:"org_unit_type,omitempty"`
	InvitedUserID   uuid.UUID           `json:"invited_user_id"`
	InvitedUserName string              `json:"invited_user_name,omitempty"`
	InvitedByUserID uuid.UUID           `json:"invited_by_user_id"`
	InvitedByName   string              `json:"invited_by_name,omitempty"`
	Role            models.OrgRole      `json:"role"`
	Status          models.InviteStatus `json:"status"`
	Message         string              `json:"message,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
	RespondedAt     *time.Time          `json:"responded_at,omitempty"`
}

// ToInviteDTO converts an invite; relation fields are filled from whatever
// was preloaded.
func ToInviteDTO(invite models.Invite) InviteDTO {
	return InviteDTO{
		ID:              invite.ID,
		OrgUnitID:       invite.OrgUnitID,
		OrgUnitName:     invite.OrgUnit.Name,
		OrgUnitType:     invite.OrgUnit.Type,
		InvitedUserID:   invite.InvitedUserID,
		InvitedUserName: invite.InvitedUser.FullName,
		InvitedByUserID: invite.InvitedByUserID,
		InvitedByName:   invite.InvitedByUser.FullName,
		Role:            invite.Role,
		Status:          invite.Status,
		Message:         invite.Message,
		CreatedAt:       invite.CreatedAt,
		ExpiresAt:       invite.ExpiresAt,
		RespondedAt:     invite.RespondedAt,
	}
}
