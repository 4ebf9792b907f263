package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoticeType string

const (
	NoticeInfo    NoticeType = "INFO"
	NoticeWarning NoticeType = "WARNING"
	NoticeEvent   NoticeType = "EVENT"
)

// Notice is a broadcast message ("aviso") fanned out to a set of recipients
// at send time.
type Notice struct {
	ID              uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	Title           string     `gorm:"type:varchar(200);not null" json:"title"`
	Message         string     `gorm:"type:text;not null" json:"message"`
	Type            NoticeType `gorm:"type:varchar(20);not null;default:'INFO'" json:"type"`
	CreatedByUserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `gorm:"not null;index" json:"expires_at"`

	// Relations
	Recipients []NoticeRecipient `gorm:"foreignKey:NoticeID" json:"-"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NoticeRecipient is one user's copy of a notice, carrying its read state.
type NoticeRecipient struct {
	ID       uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	NoticeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_notice_recipients_notice_user" json:"notice_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_notice_recipients_notice_user" json:"user_id"`
	Read     bool       `gorm:"not null;default:false" json:"read"`
	ReadAt   *time.Time `json:"read_at,omitempty"`

	// Relations
	Notice Notice `gorm:"foreignKey:NoticeID" json:"notice,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (r *NoticeRecipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
