package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GlobalRole string

const (
	GlobalRoleNone  GlobalRole = ""
	GlobalRoleAdmin GlobalRole = "ADMIN"
	GlobalRoleDev   GlobalRole = "DEV"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	FullName     string     `gorm:"type:varchar(255)" json:"full_name"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	GlobalRole   GlobalRole `gorm:"type:varchar(20);not null;default:''" json:"global_role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Memberships []Membership `gorm:"foreignKey:UserID" json:"-"`
	Invites     []Invite     `gorm:"foreignKey:InvitedUserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasElevatedRole reports whether the user holds an organization-wide
// administrative role.
func (u *User) HasElevatedRole() bool {
	return u.GlobalRole == GlobalRoleAdmin || u.GlobalRole == GlobalRoleDev
}
