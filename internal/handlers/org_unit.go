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

// OrgUnitHandler coordinates org tree HTTP handlers.
type OrgUnitHandler struct {
	unitService *services.OrgUnitService
}

// NewOrgUnitHandler creates a new OrgUnitHandler.
func NewOrgUnitHandler(unitService *services.OrgUnitService) *OrgUnitHandler {
	return &OrgUnitHandler{
		unitService: unitService,
	}
}

// CreateUnitRequest is the body for creating a root or child unit.
type CreateUnitRequest struct {
	Name         string               `json:"name" binding:"required,min=2,max=200"`
	Description  string               `json:"description" binding:"max=1000"`
	Visibility   models.Visibility    `json:"visibility"`
	Type         *models.OrgUnitType  `json:"type"`
	GroupSubtype *models.GroupSubtype `json:"group_subtype"`
}

func (r CreateUnitRequest) toInput() services.CreateChildInput {
	return services.CreateChildInput{
		Name:         r.Name,
		Description:  r.Description,
		Visibility:   r.Visibility,
		Type:         r.Type,
		GroupSubtype: r.GroupSubtype,
	}
}

// GetTree returns the organizational tree with member counts.
func (h *OrgUnitHandler) GetTree(c *gin.Context) {
	var rootID *uuid.UUID
	if raw := c.Query("root_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid root_id")
			return
		}
		rootID = &id
	}

	tree, err := h.unitService.GetTree(rootID)
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			c.JSON(http.StatusOK, gin.H{"root": nil})
			return
		}
		apierrors.InternalError(c, "Failed to load organization tree")
		return
	}

	c.JSON(http.StatusOK, gin.H{"root": tree})
}

// CreateRoot creates the COUNCIL_GENERAL unit.
func (h *OrgUnitHandler) CreateRoot(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.CreateRoot(userID, req.toInput())
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrgUnitDTO(*unit))
}

// CreateChild creates a unit under the parent in the path.
func (h *OrgUnitHandler) CreateChild(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	parentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.CreateChild(userID, parentID, req.toInput())
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrgUnitDTO(*unit))
}

// GetUnit returns a unit with the caller's permissions on it.
func (h *OrgUnitHandler) GetUnit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}

	unit, perms, err := h.unitService.GetUnit(unitID, userID)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unit":        dto.ToOrgUnitDTO(*unit),
		"permissions": perms,
	})
}

// Deactivate marks a unit inactive.
func (h *OrgUnitHandler) Deactivate(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid unit ID")
		return
	}

	unit, err := h.unitService.Deactivate(unitID, userID)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrgUnitDTO(*unit))
}

func respondOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnitNotFound),
		errors.Is(err, services.ErrParentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUnitPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidHierarchy):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidHierarchy, err.Error()))
	case errors.Is(err, services.ErrRootAlreadyExists):
		apierrors.Conflict(c, apierrors.ErrCodeRootAlreadyExists, err.Error())
	case errors.Is(err, services.ErrParentInactive),
		errors.Is(err, services.ErrUnitNameRequired),
		errors.Is(err, services.ErrGroupSubtypeRequired),
		errors.Is(err, services.ErrGroupSubtypeNotAllowed),
		errors.Is(err, services.ErrInvalidGroupSubtype):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
