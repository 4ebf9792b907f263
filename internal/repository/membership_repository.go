package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Find finds the membership of a user in a unit
func (r *GormMembershipRepository) Find(orgUnitID, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.Where("org_unit_id = ? AND user_id = ?", orgUnitID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByUnit lists ACTIVE members of a unit. COORDINATOR sorts before MEMBER
// lexicographically, which gives the coordinators-first ordering directly.
func (r *GormMembershipRepository) ListByUnit(orgUnitID uuid.UUID) ([]models.Membership, error) {
	var members []models.Membership
	if err := r.db.Preload("User").
		Where("org_unit_id = ? AND status = ?", orgUnitID, models.MembershipActive).
		Order("role ASC, joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListByUser lists a user's ACTIVE memberships with their units
func (r *GormMembershipRepository) ListByUser(userID uuid.UUID) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("OrgUnit").
		Where("user_id = ? AND status = ?", userID, models.MembershipActive).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// Update persists changes to a membership
func (r *GormMembershipRepository) Update(membership *models.Membership) error {
	return r.db.Save(membership).Error
}

// Delete hard-deletes a membership, returning the number of rows removed
func (r *GormMembershipRepository) Delete(orgUnitID, userID uuid.UUID) (int64, error) {
	res := r.db.Where("org_unit_id = ? AND user_id = ?", orgUnitID, userID).
		Delete(&models.Membership{})
	return res.RowsAffected, res.Error
}

// CountCoordinators counts ACTIVE coordinators of a unit
func (r *GormMembershipRepository) CountCoordinators(orgUnitID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).
		Where("org_unit_id = ? AND role = ? AND status = ?",
			orgUnitID, models.RoleCoordinator, models.MembershipActive).
		Count(&count).Error
	return count, err
}

// HasMinistryMembershipUnder reports whether the user holds an ACTIVE
// membership in an active MINISTRY whose parent is the given sector
func (r *GormMembershipRepository) HasMinistryMembershipUnder(userID, sectorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).
		Joins("JOIN org_units ON org_units.id = memberships.org_unit_id").
		Where("memberships.user_id = ? AND memberships.status = ?", userID, models.MembershipActive).
		Where("org_units.parent_id = ? AND org_units.type = ? AND org_units.is_active = ?",
			sectorID, models.UnitMinistry, true).
		Count(&count).Error
	return count > 0, err
}

// ListActiveUserIDsByUnits returns the distinct user IDs holding ACTIVE
// memberships in any of the given units
func (r *GormMembershipRepository) ListActiveUserIDsByUnits(orgUnitIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(orgUnitIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	var ids []uuid.UUID
	if err := r.db.Model(&models.Membership{}).
		Distinct("user_id").
		Where("org_unit_id IN ? AND status = ?", orgUnitIDs, models.MembershipActive).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
