package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/database"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

type permissionTestEnv struct {
	db          *gorm.DB
	permissions *PermissionService
}

func setupPermissionTestEnv(t *testing.T) permissionTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.OrgUnit{},
		&models.Membership{},
		&models.Invite{},
		&models.Notice{},
		&models.NoticeRecipient{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	membershipRepo := repository.NewMembershipRepository(db)
	permissions := NewPermissionService(membershipRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return permissionTestEnv{
		db:          db,
		permissions: permissions,
	}
}

func TestPermissionService_Resolve_Coordinator(t *testing.T) {
	env := setupPermissionTestEnv(t)

	coordinator := createOrgTestUser(t, env.db, "coordinator", models.GlobalRoleNone)
	sector := seedUnit(t, env.db, models.UnitSector, "Setor", nil)
	seedMembership(t, env.db, sector.ID, coordinator.ID, models.RoleCoordinator)

	perms, err := env.permissions.Resolve(sector, coordinator.ID)
	require.NoError(t, err)
	require.True(t, perms.CanView)
	require.True(t, perms.CanInvite)
	require.True(t, perms.CanManageMembers)
	require.True(t, perms.CanCreateChild)
	require.Equal(t, []models.OrgUnitType{models.UnitMinistry, models.UnitGroup}, perms.AllowedChildTypes)
	require.True(t, perms.IsCoordinator)
	require.True(t, perms.IsMember)
}

func TestPermissionService_Resolve_PlainMember(t *testing.T) {
	env := setupPermissionTestEnv(t)

	member := createOrgTestUser(t, env.db, "member", models.GlobalRoleNone)
	ministry := seedUnit(t, env.db, models.UnitMinistry, "Ministério", nil)
	seedMembership(t, env.db, ministry.ID, member.ID, models.RoleMember)

	perms, err := env.permissions.Resolve(ministry, member.ID)
	require.NoError(t, err)
	require.True(t, perms.CanView)
	require.False(t, perms.CanInvite)
	require.False(t, perms.CanManageMembers)
	require.False(t, perms.CanCreateChild)
	require.Empty(t, perms.AllowedChildTypes)
	require.False(t, perms.IsCoordinator)
	require.True(t, perms.IsMember)
}

func TestPermissionService_Resolve_NonMember(t *testing.T) {
	env := setupPermissionTestEnv(t)

	outsider := createOrgTestUser(t, env.db, "outsider", models.GlobalRoleNone)
	public := seedUnit(t, env.db, models.UnitMinistry, "Público", nil)
	restricted := seedUnit(t, env.db, models.UnitGroup, "Fechado", nil)
	restricted.Visibility = models.VisibilityRestricted
	require.NoError(t, env.db.Save(restricted).Error)

	perms, err := env.permissions.Resolve(public, outsider.ID)
	require.NoError(t, err)
	require.True(t, perms.CanView)
	require.False(t, perms.IsMember)

	perms, err = env.permissions.Resolve(restricted, outsider.ID)
	require.NoError(t, err)
	require.False(t, perms.CanView)
	require.False(t, perms.CanViewMembers)
}

func TestPermissionService_MinistryMembershipOpensParentSector(t *testing.T) {
	env := setupPermissionTestEnv(t)

	member := createOrgTestUser(t, env.db, "member", models.GlobalRoleNone)
	sector := seedUnit(t, env.db, models.UnitSector, "Setor Reservado", nil)
	sector.Visibility = models.VisibilityRestricted
	require.NoError(t, env.db.Save(sector).Error)
	ministry := seedUnit(t, env.db, models.UnitMinistry, "Ministério", &sector.ID)
	seedMembership(t, env.db, ministry.ID, member.ID, models.RoleMember)

	perms, err := env.permissions.Resolve(sector, member.ID)
	require.NoError(t, err)

	// Visibility is inherited one level up; nothing else is.
	require.True(t, perms.CanView)
	require.True(t, perms.CanViewMembers)
	require.False(t, perms.CanInvite)
	require.False(t, perms.CanManageMembers)
	require.False(t, perms.IsMember)
	require.False(t, perms.IsCoordinator)
}

func TestPermissionService_GroupMembershipDoesNotOpenParentSector(t *testing.T) {
	env := setupPermissionTestEnv(t)

	member := createOrgTestUser(t, env.db, "member", models.GlobalRoleNone)
	sector := seedUnit(t, env.db, models.UnitSector, "Setor Reservado", nil)
	sector.Visibility = models.VisibilityRestricted
	require.NoError(t, env.db.Save(sector).Error)
	group := seedUnit(t, env.db, models.UnitGroup, "Grupo", &sector.ID)
	seedMembership(t, env.db, group.ID, member.ID, models.RoleMember)

	perms, err := env.permissions.Resolve(sector, member.ID)
	require.NoError(t, err)
	require.False(t, perms.CanView)
}

func TestPermissionService_InheritanceStopsAtOneLevel(t *testing.T) {
	env := setupPermissionTestEnv(t)

	member := createOrgTestUser(t, env.db, "member", models.GlobalRoleNone)
	exec := seedUnit(t, env.db, models.UnitCouncilExecutive, "Executivo", nil)
	exec.Visibility = models.VisibilityRestricted
	require.NoError(t, env.db.Save(exec).Error)
	sector := seedUnit(t, env.db, models.UnitSector, "Setor", &exec.ID)
	ministry := seedUnit(t, env.db, models.UnitMinistry, "Ministério", &sector.ID)
	seedMembership(t, env.db, ministry.ID, member.ID, models.RoleMember)

	// Ministry membership reaches the sector, never the council above it.
	perms, err := env.permissions.Resolve(exec, member.ID)
	require.NoError(t, err)
	require.False(t, perms.CanView)
}
