package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

// InboxEntryDTO is one entry of a user's inbox.
type InboxEntryDTO struct {
	ID        uuid.UUID         `json:"id"`
	NoticeID  uuid.UUID         `json:"notice_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      models.NoticeType `json:"type"`
	Read      bool              `json:"read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ToInboxEntryDTO converts a recipient row (with Notice joined).
func ToInboxEntryDTO(recipient models.NoticeRecipient) InboxEntryDTO {
	return InboxEntryDTO{
		ID:        recipient.ID,
		NoticeID:  recipient.NoticeID,
		Title:     recipient.Notice.Title,
		Message:   recipient.Notice.Message,
		Type:      recipient.Notice.Type,
		Read:      recipient.Read,
		ReadAt:    recipient.ReadAt,
		CreatedAt: recipient.Notice.CreatedAt,
		ExpiresAt: recipient.Notice.ExpiresAt,
	}
}

// SentNoticeDTO is a sent notice with its delivery counts.
type SentNoticeDTO struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Type           models.NoticeType `json:"type"`
	CreatedAt      time.Time         `json:"created_at"`
	ExpiresAt      time.Time         `json:"expires_at"`
	RecipientCount int64             `json:"recipient_count"`
	ReadCount      int64             `json:"read_count"`
}

// ToSentNoticeDTO converts a sent notice with counts.
func ToSentNoticeDTO(sent repository.SentNotice) SentNoticeDTO {
	return SentNoticeDTO{
		ID:             sent.Notice.ID,
		Title:          sent.Notice.Title,
		Message:        sent.Notice.Message,
		Type:           sent.Notice.Type,
		CreatedAt:      sent.Notice.CreatedAt,
		ExpiresAt:      sent.Notice.ExpiresAt,
		RecipientCount: sent.RecipientCount,
		ReadCount:      sent.ReadCount,
	}
}
