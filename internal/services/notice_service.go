package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
	"github.com/eliasandraade/lumenplus-app/internal/utils"
)

var (
	ErrNoticeTitleRequired     = errors.New("notice title cannot be empty")
	ErrNoticeMessageRequired   = errors.New("notice message cannot be empty")
	ErrEmptyRecipientFilter    = errors.New("recipient filter selects nobody")
	ErrNoticePermissionDenied  = errors.New("user is not allowed to send this notice")
	ErrNoticeRecipientNotFound = errors.New("notice not found")
)

// NoticeService sends broadcast messages ("avisos") to a recipient set
// computed from a filter and serves the per-user inbox. It is independent of
// the org tree except when the filter selects by unit membership.
type NoticeService struct {
	noticeRepo     repository.NoticeRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	permissions    *PermissionService
	expiry         time.Duration
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(
	noticeRepo repository.NoticeRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	permissions *PermissionService,
	expirationDays int,
) *NoticeService {
	return &NoticeService{
		noticeRepo:     noticeRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		permissions:    permissions,
		expiry:         time.Duration(expirationDays) * 24 * time.Hour,
	}
}

// SendInput represents a broadcast request.
type SendInput struct {
	Title   string
	Message string
	Type    models.NoticeType
	Filter  repository.NoticeFilter
}

// authorize checks the sender against the filter: a global ADMIN/DEV may
// send anything; otherwise the sender must coordinate every targeted unit,
// and send-to-all is off limits.
func (s *NoticeService) authorize(senderID uuid.UUID, filter repository.NoticeFilter) error {
	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoticePermissionDenied
		}
		return fmt.Errorf("failed to find sender: %w", err)
	}
	if sender.HasElevatedRole() {
		return nil
	}

	if filter.SendToAll || len(filter.OrgUnitIDs) == 0 {
		return ErrNoticePermissionDenied
	}

	for _, unitID := range filter.OrgUnitIDs {
		isCoordinator, err := s.permissions.IsCoordinator(unitID, senderID)
		if err != nil {
			return err
		}
		if !isCoordinator {
			return ErrNoticePermissionDenied
		}
	}

	return nil
}

// resolveRecipients computes the user IDs a filter reaches.
func (s *NoticeService) resolveRecipients(filter repository.NoticeFilter) ([]uuid.UUID, error) {
	if filter.SendToAll {
		ids, err := s.userRepo.ListActiveIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return ids, nil
	}

	ids, err := s.membershipRepo.ListActiveUserIDsByUnits(filter.OrgUnitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit members: %w", err)
	}
	return ids, nil
}

// PreviewRecipients returns how many users a filter would reach, under the
// same authorization as Send.
func (s *NoticeService) PreviewRecipients(senderID uuid.UUID, filter repository.NoticeFilter) (int, error) {
	if err := s.authorize(senderID, filter); err != nil {
		return 0, err
	}

	ids, err := s.resolveRecipients(filter)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Send creates the notice and its recipient rows atomically, returning the
// notice and how many users it reached.
func (s *NoticeService) Send(senderID uuid.UUID, input SendInput) (*models.Notice, int, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, 0, ErrNoticeTitleRequired
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, 0, ErrNoticeMessageRequired
	}

	if err := s.authorize(senderID, input.Filter); err != nil {
		return nil, 0, err
	}

	recipients, err := s.resolveRecipients(input.Filter)
	if err != nil {
		return nil, 0, err
	}
	if len(recipients) == 0 {
		return nil, 0, ErrEmptyRecipientFilter
	}

	noticeType := input.Type
	switch noticeType {
	case models.NoticeInfo, models.NoticeWarning, models.NoticeEvent:
	default:
		noticeType = models.NoticeInfo
	}

	notice := &models.Notice{
		Title:           strings.TrimSpace(input.Title),
		Message:         input.Message,
		Type:            noticeType,
		CreatedByUserID: senderID,
		ExpiresAt:       time.Now().Add(s.expiry),
	}

	if err := s.noticeRepo.CreateWithRecipients(notice, recipients); err != nil {
		return nil, 0, fmt.Errorf("failed to send notice: %w", err)
	}

	return notice, len(recipients), nil
}

// Inbox returns a page of the user's unexpired notices with counts.
func (s *NoticeService) Inbox(userID uuid.UUID, params utils.PaginationParams) ([]models.NoticeRecipient, int64, int64, error) {
	return s.noticeRepo.ListInbox(userID, time.Now(), params)
}

// MarkRead marks one inbox entry as read.
func (s *NoticeService) MarkRead(userID, recipientID uuid.UUID) error {
	updated, err := s.noticeRepo.MarkRead(userID, recipientID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark notice read: %w", err)
	}
	if !updated {
		return ErrNoticeRecipientNotFound
	}
	return nil
}

// MarkAllRead marks every unread inbox entry as read, returning the count.
func (s *NoticeService) MarkAllRead(userID uuid.UUID) (int64, error) {
	count, err := s.noticeRepo.MarkAllRead(userID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notices read: %w", err)
	}
	return count, nil
}

// Sent returns notices the user sent with delivery counts.
func (s *NoticeService) Sent(userID uuid.UUID, limit int) ([]repository.SentNotice, error) {
	sent, err := s.noticeRepo.ListSentByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent notices: %w", err)
	}
	return sent, nil
}
