package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/utils"
)

// GormNoticeRepository is a GORM implementation of NoticeRepository
type GormNoticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &GormNoticeRepository{db: db}
}

// CreateWithRecipients creates a notice and its recipient rows atomically
func (r *GormNoticeRepository) CreateWithRecipients(notice *models.Notice, userIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notice).Error; err != nil {
			return err
		}

		if len(userIDs) == 0 {
			return nil
		}

		recipients := make([]models.NoticeRecipient, len(userIDs))
		for i, userID := range userIDs {
			recipients[i] = models.NoticeRecipient{
				NoticeID: notice.ID,
				UserID:   userID,
			}
		}
		return tx.Create(&recipients).Error
	})
}

func (r *GormNoticeRepository) inboxQuery(userID uuid.UUID, now time.Time) *gorm.DB {
	return r.db.Model(&models.NoticeRecipient{}).
		Joins("Notice").
		Where("notice_recipients.user_id = ?", userID).
		Where(`"Notice".expires_at > ?`, now)
}

// ListInbox returns a page of a user's unexpired notices, unread first then
// newest, with total and unread counts
func (r *GormNoticeRepository) ListInbox(userID uuid.UUID, now time.Time, params utils.PaginationParams) ([]models.NoticeRecipient, int64, int64, error) {
	var total int64
	if err := r.inboxQuery(userID, now).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	var unread int64
	if err := r.inboxQuery(userID, now).
		Where("notice_recipients.read = ?", false).
		Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}

	var recipients []models.NoticeRecipient
	if err := r.inboxQuery(userID, now).
		Order(`notice_recipients.read ASC, "Notice".created_at DESC`).
		Offset(params.Offset).Limit(params.Limit).
		Find(&recipients).Error; err != nil {
		return nil, 0, 0, err
	}

	return recipients, total, unread, nil
}

// MarkRead marks one recipient row as read
func (r *GormNoticeRepository) MarkRead(userID, recipientID uuid.UUID, now time.Time) (bool, error) {
	res := r.db.Model(&models.NoticeRecipient{}).
		Where("id = ? AND user_id = ? AND read = ?", recipientID, userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkAllRead marks all of a user's unread rows as read
func (r *GormNoticeRepository) MarkAllRead(userID uuid.UUID, now time.Time) (int64, error) {
	res := r.db.Model(&models.NoticeRecipient{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": now,
		})
	return res.RowsAffected, res.Error
}

// ListSentByUser returns notices sent by a user with delivery counts
func (r *GormNoticeRepository) ListSentByUser(userID uuid.UUID, limit int) ([]SentNotice, error) {
	var notices []models.Notice
	if err := r.db.Where("created_by_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notices).Error; err != nil {
		return nil, err
	}

	sent := make([]SentNotice, 0, len(notices))
	for _, notice := range notices {
		var recipients, read int64
		if err := r.db.Model(&models.NoticeRecipient{}).
			Where("notice_id = ?", notice.ID).
			Count(&recipients).Error; err != nil {
			return nil, err
		}
		if err := r.db.Model(&models.NoticeRecipient{}).
			Where("notice_id = ? AND read = ?", notice.ID, true).
			Count(&read).Error; err != nil {
			return nil, err
		}

		sent = append(sent, SentNotice{
			Notice:         notice,
			RecipientCount: recipients,
			ReadCount:      read,
		})
	}

	return sent, nil
}
