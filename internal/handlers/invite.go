package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/dto"
	apierrors "github.com/eliasandraade/lumenplus-app/internal/errors"
	"github.com/eliasandraade/lumenplus-app/internal/middleware"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/services"
)

// InviteHandler coordinates invitation HTTP handlers.
type InviteHandler struct {
	inviteService *services.InviteService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// Invite creates an invitation on a unit.
func (h *InviteHandler) Invite(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}

	type InviteRequest struct {
		UserID  uuid.UUID      `json:"user_id" binding:"required"`
		Role    models.OrgRole `json:"role"`
		Message string         `json:"message" binding:"max=500"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.inviteService.Invite(unitID, userID, services.InviteInput{
		InvitedUserID: req.UserID,
		Role:          req.Role,
		Message:       req.Message,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invite_id": invite.ID,
		"status":    invite.Status,
		"message":   "Invite sent",
	})
}

// Accept accepts an invitation, creating the membership.
func (h *InviteHandler) Accept(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid invite ID")
		return
	}

	invite, membership, err := h.inviteService.Accept(inviteID, userID)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invite_id":   invite.ID,
		"status":      invite.Status,
		"org_unit_id": membership.OrgUnitID,
		"role":        membership.Role,
	})
}

// Reject rejects an invitation.
func (h *InviteHandler) Reject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid invite ID")
		return
	}

	invite, err := h.inviteService.Reject(inviteID, userID)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invite_id": invite.ID,
		"status":    invite.Status,
	})
}

// MyInvites returns the caller's pending invitations.
func (h *InviteHandler) MyInvites(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	invites, err := h.inviteService.MyInvites(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list invites")
		return
	}

	inviteDTOs := make([]dto.InviteDTO, len(invites))
	for i, invite := range invites {
		inviteDTOs[i] = dto.ToInviteDTO(invite)
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": inviteDTOs,
	})
}

// UnitInvites returns a unit's pending invitations (coordinators only).
func (h *InviteHandler) UnitInvites(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}

	invites, err := h.inviteService.UnitInvites(unitID, userID)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	inviteDTOs := make([]dto.InviteDTO, len(invites))
	for i, invite := range invites {
		inviteDTOs[i] = dto.ToInviteDTO(invite)
	}

	c.JSON(http.StatusOK, gin.H{
		"org_unit_id": unitID,
		"invites":     inviteDTOs,
	})
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUnitNotFound),
		errors.Is(err, services.ErrInvitedUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotInvitedUser),
		errors.Is(err, services.ErrInvitePermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyMember, err.Error())
	case errors.Is(err, services.ErrDuplicatePendingInvite):
		apierrors.Conflict(c, apierrors.ErrCodeDuplicatePending, err.Error())
	case errors.Is(err, services.ErrInviteNotPending):
		apierrors.Conflict(c, apierrors.ErrCodeInvalidState, err.Error())
	case errors.Is(err, services.ErrInviteExpired):
		apierrors.Gone(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
