package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/dto"
	apierrors "github.com/eliasandraade/lumenplus-app/internal/errors"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
	"github.com/eliasandraade/lumenplus-app/internal/services"
)

type membershipHandlerTestEnv struct {
	db      *gorm.DB
	handler *MembershipHandler
}

func setupMembershipHandlerTestEnv(t *testing.T) membershipHandlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openHandlerTestDB(t)

	membershipRepo := repository.NewMembershipRepository(db)
	unitRepo := repository.NewOrgUnitRepository(db)
	permissions := services.NewPermissionService(membershipRepo)
	membershipService := services.NewMembershipService(membershipRepo, unitRepo, permissions)
	handler := NewMembershipHandler(membershipService)

	return membershipHandlerTestEnv{
		db:      db,
		handler: handler,
	}
}

func TestMembershipHandler_ListMembers(t *testing.T) {
	env := setupMembershipHandlerTestEnv(t)

	coordinator := seedTestUser(t, env.db, "coordinator", models.GlobalRoleNone)
	member := seedTestUser(t, env.db, "member", models.GlobalRoleNone)
	ministry := seedTestUnit(t, env.db, models.UnitMinistry, "Música", nil)
	seedTestMembership(t, env.db, ministry.ID, coordinator.ID, models.RoleCoordinator)
	seedTestMembership(t, env.db, ministry.ID, member.ID, models.RoleMember)

	c, w := orgTestContext(http.MethodGet, "/api/org/units/"+ministry.ID.String()+"/members",
		nil, member.ID, gin.Params{{Key: "id", Value: ministry.ID.String()}})
	env.handler.ListMembers(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		OrgUnitID uuid.UUID       `json:"org_unit_id"`
		Members   []dto.MemberDTO `json:"members"`
		Total     int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, ministry.ID, response.OrgUnitID)
	require.Equal(t, 2, response.Total)
	require.Equal(t, models.RoleCoordinator, response.Members[0].Role)
	require.Equal(t, "coordinator", response.Members[0].Username)
}

func TestMembershipHandler_ListMembers_RestrictedUnit(t *testing.T) {
	env := setupMembershipHandlerTestEnv(t)

	member := seedTestUser(t, env.db, "member", models.GlobalRoleNone)
	outsider := seedTestUser(t, env.db, "outsider", models.GlobalRoleNone)
	group := seedTestUnit(t, env.db, models.UnitGroup, "Grupo Fechado", nil)
	group.Visibility = models.VisibilityRestricted
	require.NoError(t, env.db.Save(group).Error)
	seedTestMembership(t, env.db, group.ID, member.ID, models.RoleMember)

	c, w := orgTestContext(http.MethodGet, "/api/org/units/"+group.ID.String()+"/members",
		nil, outsider.ID, gin.Params{{Key: "id", Value: group.ID.String()}})
	env.handler.ListMembers(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembershipHandler_SetRole(t *testing.T) {
	env := setupMembershipHandlerTestEnv(t)

	coordinator := seedTestUser(t, env.db, "coordinator", models.GlobalRoleNone)
	member := seedTestUser(t, env.db, "member", models.GlobalRoleNone)
	ministry := seedTestUnit(t, env.db, models.UnitMinistry, "Música", nil)
	seedTestMembership(t, env.db, ministry.ID, coordinator.ID, models.RoleCoordinator)
	seedTestMembership(t, env.db, ministry.ID, member.ID, models.RoleMember)

	body, err := json.Marshal(map[string]string{"role": "COORDINATOR"})
	require.NoError(t, err)

	params := gin.Params{
		{Key: "id", Value: ministry.ID.String()},
		{Key: "user_id", Value: member.ID.String()},
	}
	c, w := orgTestContext(http.MethodPut,
		"/api/org/units/"+ministry.ID.String()+"/members/"+member.ID.String()+"/role",
		body, coordinator.ID, params)
	env.handler.SetRole(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Role models.OrgRole `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleCoordinator, response.Role)
}

func TestMembershipHandler_SetRole_LastCoordinator(t *testing.T) {
	env := setupMembershipHandlerTestEnv(t)

	coordinator := seedTestUser(t, env.db, "coordinator", models.GlobalRoleNone)
	ministry := seedTestUnit(t, env.db, models.UnitMinistry, "Música", nil)
	seedTestMembership(t, env.db, ministry.ID, coordinator.ID, models.RoleCoordinator)

	body, err := json.Marshal(map[string]string{"role": "MEMBER"})
	require.NoError(t, err)

	params := gin.Params{
		{Key: "id", Value: ministry.ID.String()},
		{Key: "user_id", Value: coordinator.ID.String()},
	}
	c, w := orgTestContext(http.MethodPut,
		"/api/org/units/"+ministry.ID.String()+"/members/"+coordinator.ID.String()+"/role",
		body, coordinator.ID, params)
	env.handler.SetRole(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeLastCoordinator, decodeAPIError(t, w).Code)
}

func TestMembershipHandler_RemoveMember(t *testing.T) {
	env := setupMembershipHandlerTestEnv(t)

	coordinator := seedTestUser(t, env.db, "coordinator", models.GlobalRoleNone)
	member := seedTestUser(t, env.db, "member", models.GlobalRoleNone)
	ministry := seedTestUnit(t, env.db, models.UnitMinistry, "Música", nil)
	seedTestMembership(t, env.db, ministry.ID, coordinator.ID, models.RoleCoordinator)
	seedTestMembership(t, env.db, ministry.ID, member.ID, models.RoleMember)

	params := gin.Params{
		{Key: "id", Value: ministry.ID.String()},
		{Key: "user_id", Value: member.ID.String()},
	}
	c, w := orgTestContext(http.MethodDelete,
		"/api/org/units/"+ministry.ID.String()+"/members/"+member.ID.String(),
		nil, coordinator.ID, params)
	env.handler.RemoveMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	// The repeat removal reports the row gone.
	c, w = orgTestContext(http.MethodDelete,
		"/api/org/units/"+ministry.ID.String()+"/members/"+member.ID.String(),
		nil, coordinator.ID, params)
	env.handler.RemoveMember(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, apierrors.ErrCodeMemberNotFound, decodeAPIError(t, w).Code)
}

func TestMembershipHandler_MyMemberships(t *testing.T) {
	env := setupMembershipHandlerTestEnv(t)

	user := seedTestUser(t, env.db, "user", models.GlobalRoleNone)
	ministry := seedTestUnit(t, env.db, models.UnitMinistry, "Música", nil)
	seedTestMembership(t, env.db, ministry.ID, user.ID, models.RoleMember)

	c, w := orgTestContext(http.MethodGet, "/api/org/my/memberships", nil, user.ID, nil)
	env.handler.MyMemberships(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Memberships []dto.MembershipDTO `json:"memberships"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Memberships, 1)
	require.Equal(t, "Música", response.Memberships[0].OrgUnitName)
}
