package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
)

// ErrNotPending is returned when a status transition finds the invite
// already in a terminal state. Under concurrent responses the first writer
// wins the compare-and-set and the rest observe this error.
var ErrNotPending = errors.New("invite repository: invite is not pending")

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// Create creates a new invite
func (r *GormInviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// FindByID finds an invite by ID with its unit
func (r *GormInviteRepository) FindByID(id uuid.UUID) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Preload("OrgUnit").First(&invite, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindPending finds the PENDING invite for a (unit, user) pair
func (r *GormInviteRepository) FindPending(orgUnitID, userID uuid.UUID) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where("org_unit_id = ? AND invited_user_id = ? AND status = ?",
		orgUnitID, userID, models.InvitePending).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListPendingByUser lists a user's PENDING invites, newest first
func (r *GormInviteRepository) ListPendingByUser(userID uuid.UUID) ([]models.Invite, error) {
	var invites []models.Invite
	if err := r.db.Preload("OrgUnit").Preload("InvitedByUser").
		Where("invited_user_id = ? AND status = ?", userID, models.InvitePending).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// ListPendingByUnit lists a unit's PENDING invites, newest first
func (r *GormInviteRepository) ListPendingByUnit(orgUnitID uuid.UUID) ([]models.Invite, error) {
	var invites []models.Invite
	if err := r.db.Preload("InvitedUser").Preload("InvitedByUser").
		Where("org_unit_id = ? AND status = ?", orgUnitID, models.InvitePending).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// Accept flips the invite from PENDING to ACCEPTED and inserts the membership
// in one transaction. The status update only matches PENDING rows, so a lost
// race surfaces as ErrNotPending; the membership (user, unit) unique index
// backstops it with gorm.ErrDuplicatedKey.
func (r *GormInviteRepository) Accept(invite *models.Invite, now time.Time) (*models.Membership, error) {
	membership := &models.Membership{
		UserID:    invite.InvitedUserID,
		OrgUnitID: invite.OrgUnitID,
		Role:      invite.Role,
		Status:    models.MembershipActive,
		InviteID:  &invite.ID,
		JoinedAt:  now,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invite{}).
			Where("id = ? AND status = ?", invite.ID, models.InvitePending).
			Updates(map[string]interface{}{
				"status":       models.InviteAccepted,
				"responded_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}

	invite.Status = models.InviteAccepted
	invite.RespondedAt = &now
	return membership, nil
}

// Reject flips the invite from PENDING to REJECTED with the same
// compare-and-set as Accept. No membership is created.
func (r *GormInviteRepository) Reject(invite *models.Invite, now time.Time) error {
	res := r.db.Model(&models.Invite{}).
		Where("id = ? AND status = ?", invite.ID, models.InvitePending).
		Updates(map[string]interface{}{
			"status":       models.InviteRejected,
			"responded_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}

	invite.Status = models.InviteRejected
	invite.RespondedAt = &now
	return nil
}
