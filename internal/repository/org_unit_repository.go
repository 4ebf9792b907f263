package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
)

// GormOrgUnitRepository is a GORM implementation of OrgUnitRepository
type GormOrgUnitRepository struct {
	db *gorm.DB
}

// NewOrgUnitRepository creates a new OrgUnitRepository
func NewOrgUnitRepository(db *gorm.DB) OrgUnitRepository {
	return &GormOrgUnitRepository{db: db}
}

// CreateWithCoordinator creates a unit and the creator's coordinator membership atomically
func (r *GormOrgUnitRepository) CreateWithCoordinator(unit *models.OrgUnit, coordinator *models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(unit).Error; err != nil {
			return err
		}

		coordinator.OrgUnitID = unit.ID
		return tx.Create(coordinator).Error
	})
}

// FindByID finds a unit by ID
func (r *GormOrgUnitRepository) FindByID(id uuid.UUID) (*models.OrgUnit, error) {
	var unit models.OrgUnit
	if err := r.db.First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindRoot finds the COUNCIL_GENERAL unit. Deactivated roots still count:
// there can only ever be one.
func (r *GormOrgUnitRepository) FindRoot() (*models.OrgUnit, error) {
	var unit models.OrgUnit
	if err := r.db.Where("type = ?", models.UnitCouncilGeneral).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListActive returns all active units
func (r *GormOrgUnitRepository) ListActive() ([]models.OrgUnit, error) {
	var units []models.OrgUnit
	if err := r.db.Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// CountActiveMembers returns the ACTIVE membership count per unit
func (r *GormOrgUnitRepository) CountActiveMembers() (map[uuid.UUID]int64, error) {
	type row struct {
		OrgUnitID uuid.UUID
		Count     int64
	}

	var rows []row
	if err := r.db.Model(&models.Membership{}).
		Select("org_unit_id, COUNT(*) AS count").
		Where("status = ?", models.MembershipActive).
		Group("org_unit_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.OrgUnitID] = r.Count
	}
	return counts, nil
}

// SlugExists reports whether a sibling of parentID already uses slug
func (r *GormOrgUnitRepository) SlugExists(parentID *uuid.UUID, slug string) (bool, error) {
	query := r.db.Model(&models.OrgUnit{}).Where("slug = ?", slug)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists changes to a unit
func (r *GormOrgUnitRepository) Update(unit *models.OrgUnit) error {
	return r.db.Save(unit).Error
}
