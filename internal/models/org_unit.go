package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgUnitType string

const (
	UnitCouncilGeneral   OrgUnitType = "COUNCIL_GENERAL"
	UnitCouncilExecutive OrgUnitType = "COUNCIL_EXECUTIVE"
	UnitSector           OrgUnitType = "SECTOR"
	UnitMinistry         OrgUnitType = "MINISTRY"
	UnitGroup            OrgUnitType = "GROUP"
)

type GroupSubtype string

const (
	GroupWelcome    GroupSubtype = "WELCOME"
	GroupDeepening  GroupSubtype = "DEEPENING"
	GroupVocational GroupSubtype = "VOCATIONAL"
	GroupCouples    GroupSubtype = "COUPLES"
	GroupCourse     GroupSubtype = "COURSE"
	GroupProject    GroupSubtype = "PROJECT"
)

type Visibility string

const (
	VisibilityPublic     Visibility = "PUBLIC"
	VisibilityRestricted Visibility = "RESTRICTED"
)

// AllowedChildren is the fixed hierarchy table: which unit types each type
// may have as direct children. GROUP is always a leaf.
var AllowedChildren = map[OrgUnitType][]OrgUnitType{
	UnitCouncilGeneral:   {UnitCouncilExecutive},
	UnitCouncilExecutive: {UnitSector},
	UnitSector:           {UnitMinistry, UnitGroup},
	UnitMinistry:         {UnitGroup},
	UnitGroup:            {},
}

// CanHaveChild reports whether child is a permitted direct child type of parent.
func CanHaveChild(parent, child OrgUnitType) bool {
	for _, allowed := range AllowedChildren[parent] {
		if allowed == child {
			return true
		}
	}
	return false
}

// ValidGroupSubtype reports whether the subtype is one of the known group kinds.
func ValidGroupSubtype(s GroupSubtype) bool {
	switch s {
	case GroupWelcome, GroupDeepening, GroupVocational, GroupCouples, GroupCourse, GroupProject:
		return true
	}
	return false
}

type OrgUnit struct {
	ID           uuid.UUID     `gorm:"type:uuid;primarykey" json:"id"`
	Type         OrgUnitType   `gorm:"type:varchar(30);not null;index" json:"type"`
	GroupSubtype *GroupSubtype `gorm:"type:varchar(20)" json:"group_subtype,omitempty"`
	Name         string        `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_org_units_parent_slug" json:"slug"`
	Description  string        `gorm:"type:text" json:"description,omitempty"`
	Visibility   Visibility    `gorm:"type:varchar(20);not null;default:'PUBLIC'" json:"visibility"`
	IsActive     bool          `gorm:"not null;default:true" json:"is_active"`
	ParentID     *uuid.UUID    `gorm:"type:uuid;index;uniqueIndex:idx_org_units_parent_slug" json:"parent_id,omitempty"`
	CreatedByID  uuid.UUID     `gorm:"type:uuid" json:"created_by_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Relations
	Parent      *OrgUnit     `gorm:"foreignKey:ParentID" json:"-"`
	Children    []OrgUnit    `gorm:"foreignKey:ParentID" json:"-"`
	Memberships []Membership `gorm:"foreignKey:OrgUnitID" json:"-"`
}

func (u *OrgUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
