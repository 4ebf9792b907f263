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

// MembershipHandler coordinates membership HTTP handlers.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// ListMembers returns a unit's active members.
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}

	members, err := h.membershipService.ListMembers(unitID, userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	memberDTOs := make([]dto.MemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"org_unit_id": unitID,
		"members":     memberDTOs,
		"total":       len(memberDTOs),
	})
}

// SetRole changes a member's role in a unit.
func (h *MembershipHandler) SetRole(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetRoleRequest struct {
		Role models.OrgRole `json:"role" binding:"required"`
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.membershipService.SetRole(unitID, targetID, userID, req.Role)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     membership.UserID,
		"org_unit_id": membership.OrgUnitID,
		"role":        membership.Role,
	})
}

// RemoveMember removes a member from a unit.
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.membershipService.RemoveMember(unitID, targetID, userID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// MyMemberships returns the caller's memberships.
func (h *MembershipHandler) MyMemberships(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberships, err := h.membershipService.MyMemberships(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list memberships")
		return
	}

	membershipDTOs := make([]dto.MembershipDTO, len(memberships))
	for i, membership := range memberships {
		membershipDTOs[i] = dto.ToMembershipDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{
		"memberships": membershipDTOs,
	})
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnitNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeMemberNotFound, err.Error()))
	case errors.Is(err, services.ErrMemberPermissionDenied),
		errors.Is(err, services.ErrRestrictedUnit):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrLastCoordinator):
		apierrors.Conflict(c, apierrors.ErrCodeLastCoordinator, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
