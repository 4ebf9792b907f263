package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/constants"
	"github.com/eliasandraade/lumenplus-app/internal/dto"
	apierrors "github.com/eliasandraade/lumenplus-app/internal/errors"
	"github.com/eliasandraade/lumenplus-app/internal/middleware"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
	"github.com/eliasandraade/lumenplus-app/internal/services"
	"github.com/eliasandraade/lumenplus-app/internal/utils"
)

// NoticeHandler coordinates broadcast/inbox HTTP handlers.
type NoticeHandler struct {
	noticeService *services.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler(noticeService *services.NoticeService) *NoticeHandler {
	return &NoticeHandler{
		noticeService: noticeService,
	}
}

// SendNoticeRequest is the body for sending or previewing a broadcast.
type SendNoticeRequest struct {
	Title      string            `json:"title" binding:"required,max=200"`
	Message    string            `json:"message" binding:"required"`
	Type       models.NoticeType `json:"type"`
	SendToAll  bool              `json:"send_to_all"`
	OrgUnitIDs []uuid.UUID       `json:"org_unit_ids"`
}

func (r SendNoticeRequest) filter() repository.NoticeFilter {
	return repository.NoticeFilter{
		SendToAll:  r.SendToAll,
		OrgUnitIDs: r.OrgUnitIDs,
	}
}

// Send broadcasts a notice to the recipients the filter resolves.
func (h *NoticeHandler) Send(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SendNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	notice, recipients, err := h.noticeService.Send(userID, services.SendInput{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Filter:  req.filter(),
	})
	if err != nil {
		respondNoticeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"notice_id":       notice.ID,
		"recipient_count": recipients,
	})
}

// Preview returns how many users the filter would reach.
func (h *NoticeHandler) Preview(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SendNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	count, err := h.noticeService.PreviewRecipients(userID, req.filter())
	if err != nil {
		respondNoticeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipient_count": count,
	})
}

// Inbox returns the caller's notices, unread first.
func (h *NoticeHandler) Inbox(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	params := utils.GetPaginationParams(c)

	entries, total, unread, err := h.noticeService.Inbox(userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to load inbox")
		return
	}

	entryDTOs := make([]dto.InboxEntryDTO, len(entries))
	for i, entry := range entries {
		entryDTOs[i] = dto.ToInboxEntryDTO(entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"notices":      entryDTOs,
		"unread_count": unread,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// MarkRead marks one inbox entry as read.
func (h *NoticeHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	recipientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid notice ID")
		return
	}

	if err := h.noticeService.MarkRead(userID, recipientID); err != nil {
		respondNoticeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notice marked as read",
	})
}

// MarkAllRead marks every unread inbox entry as read.
func (h *NoticeHandler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	count, err := h.noticeService.MarkAllRead(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to mark notices read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": count,
	})
}

// Sent returns notices the caller sent, with delivery counts.
func (h *NoticeHandler) Sent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	sent, err := h.noticeService.Sent(userID, constants.DefaultPageSize)
	if err != nil {
		apierrors.InternalError(c, "Failed to list sent notices")
		return
	}

	sentDTOs := make([]dto.SentNoticeDTO, len(sent))
	for i, notice := range sent {
		sentDTOs[i] = dto.ToSentNoticeDTO(notice)
	}

	c.JSON(http.StatusOK, gin.H{
		"notices": sentDTOs,
	})
}

func respondNoticeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoticePermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNoticeRecipientNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNoticeTitleRequired),
		errors.Is(err, services.ErrNoticeMessageRequired),
		errors.Is(err, services.ErrEmptyRecipientFilter):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
