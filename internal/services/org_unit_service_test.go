package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/database"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

type orgUnitTestEnv struct {
	db          *gorm.DB
	unitService *OrgUnitService
}

func setupOrgUnitTestEnv(t *testing.T) orgUnitTestEnv {
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

	unitRepo := repository.NewOrgUnitRepository(db)
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	permissions := NewPermissionService(membershipRepo)
	unitService := NewOrgUnitService(unitRepo, userRepo, permissions)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return orgUnitTestEnv{
		db:          db,
		unitService: unitService,
	}
}

func createOrgTestUser(t *testing.T, db *gorm.DB, username string, role models.GlobalRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		FullName:     username,
		PasswordHash: "hashed",
		GlobalRole:   role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestOrgUnitService_CreateRoot(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)
	require.Equal(t, models.UnitCouncilGeneral, root.Type)
	require.Equal(t, "conselho-geral", root.Slug)
	require.Nil(t, root.ParentID)
	require.True(t, root.IsActive)

	var membership models.Membership
	err = env.db.Where("org_unit_id = ? AND user_id = ?", root.ID, dev.ID).First(&membership).Error
	require.NoError(t, err)
	require.Equal(t, models.RoleCoordinator, membership.Role)
}

func TestOrgUnitService_CreateRoot_RequiresDevRole(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	user := createOrgTestUser(t, env.db, "regular", models.GlobalRoleNone)

	_, err := env.unitService.CreateRoot(user.ID, CreateChildInput{Name: "Conselho Geral"})
	require.ErrorIs(t, err, ErrUnitPermissionDenied)
}

func TestOrgUnitService_CreateRoot_OnlyOnce(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	_, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)

	_, err = env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Outro Conselho"})
	require.ErrorIs(t, err, ErrRootAlreadyExists)
}

func TestOrgUnitService_CreateChild_FollowsHierarchy(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)

	exec, err := env.unitService.CreateChild(dev.ID, root.ID, CreateChildInput{Name: "Conselho Executivo"})
	require.NoError(t, err)
	require.Equal(t, models.UnitCouncilExecutive, exec.Type)

	sector, err := env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor Jovem"})
	require.NoError(t, err)
	require.Equal(t, models.UnitSector, sector.Type)

	// A sector defaults to ministries unless a group subtype is given.
	ministry, err := env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{Name: "Música"})
	require.NoError(t, err)
	require.Equal(t, models.UnitMinistry, ministry.Type)
	require.Equal(t, "musica", ministry.Slug)

	subtype := models.GroupCourse
	group, err := env.unitService.CreateChild(dev.ID, ministry.ID, CreateChildInput{
		Name:         "Curso de Violão",
		GroupSubtype: &subtype,
	})
	require.NoError(t, err)
	require.Equal(t, models.UnitGroup, group.Type)
	require.Equal(t, models.GroupCourse, *group.GroupSubtype)
}

func TestOrgUnitService_CreateChild_RejectsInvalidHierarchy(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)
	exec, err := env.unitService.CreateChild(dev.ID, root.ID, CreateChildInput{Name: "Conselho Executivo"})
	require.NoError(t, err)
	sector, err := env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor"})
	require.NoError(t, err)
	ministry, err := env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{Name: "Ministério"})
	require.NoError(t, err)

	sectorType := models.UnitSector
	_, err = env.unitService.CreateChild(dev.ID, ministry.ID, CreateChildInput{
		Name: "Setor Aninhado",
		Type: &sectorType,
	})
	require.ErrorIs(t, err, ErrInvalidHierarchy)

	rootType := models.UnitCouncilGeneral
	_, err = env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{
		Name: "Outro Conselho",
		Type: &rootType,
	})
	require.ErrorIs(t, err, ErrInvalidHierarchy)
}

func TestOrgUnitService_CreateChild_GroupSubtypeRules(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)
	exec, err := env.unitService.CreateChild(dev.ID, root.ID, CreateChildInput{Name: "Executivo"})
	require.NoError(t, err)
	sector, err := env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor"})
	require.NoError(t, err)

	groupType := models.UnitGroup
	_, err = env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{
		Name: "Grupo Sem Tipo",
		Type: &groupType,
	})
	require.ErrorIs(t, err, ErrGroupSubtypeRequired)

	subtype := models.GroupWelcome
	ministryType := models.UnitMinistry
	_, err = env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{
		Name:         "Ministério Com Subtipo",
		Type:         &ministryType,
		GroupSubtype: &subtype,
	})
	require.ErrorIs(t, err, ErrGroupSubtypeNotAllowed)

	bad := models.GroupSubtype("UNKNOWN")
	_, err = env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{
		Name:         "Grupo Estranho",
		GroupSubtype: &bad,
	})
	require.ErrorIs(t, err, ErrInvalidGroupSubtype)
}

func TestOrgUnitService_CreateChild_RequiresCoordinator(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)
	member := createOrgTestUser(t, env.db, "member", models.GlobalRoleNone)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)

	require.NoError(t, env.db.Create(&models.Membership{
		UserID:    member.ID,
		OrgUnitID: root.ID,
		Role:      models.RoleMember,
		Status:    models.MembershipActive,
		JoinedAt:  time.Now(),
	}).Error)

	_, err = env.unitService.CreateChild(member.ID, root.ID, CreateChildInput{Name: "Executivo"})
	require.ErrorIs(t, err, ErrUnitPermissionDenied)
}

func TestOrgUnitService_CreateChild_SiblingSlugsStayUnique(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)
	exec, err := env.unitService.CreateChild(dev.ID, root.ID, CreateChildInput{Name: "Executivo"})
	require.NoError(t, err)

	first, err := env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor São José"})
	require.NoError(t, err)
	require.Equal(t, "setor-sao-jose", first.Slug)

	second, err := env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor São José"})
	require.NoError(t, err)
	require.Equal(t, "setor-sao-jose-1", second.Slug)
}

func TestOrgUnitService_GetTree(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)
	exec, err := env.unitService.CreateChild(dev.ID, root.ID, CreateChildInput{Name: "Executivo"})
	require.NoError(t, err)
	sector, err := env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor"})
	require.NoError(t, err)
	_, err = env.unitService.CreateChild(dev.ID, sector.ID, CreateChildInput{Name: "Ministério"})
	require.NoError(t, err)

	tree, err := env.unitService.GetTree(nil)
	require.NoError(t, err)
	require.Equal(t, root.ID, tree.Unit.ID)
	require.Equal(t, int64(1), tree.MemberCount)
	require.Len(t, tree.Children, 1)
	require.Equal(t, exec.ID, tree.Children[0].Unit.ID)
	require.Len(t, tree.Children[0].Children, 1)
	require.Equal(t, sector.ID, tree.Children[0].Children[0].Unit.ID)

	subtree, err := env.unitService.GetTree(&sector.ID)
	require.NoError(t, err)
	require.Equal(t, sector.ID, subtree.Unit.ID)
	require.Len(t, subtree.Children, 1)

	missing := uuid.New()
	_, err = env.unitService.GetTree(&missing)
	require.ErrorIs(t, err, ErrUnitNotFound)
}

func TestOrgUnitService_Deactivate(t *testing.T) {
	env := setupOrgUnitTestEnv(t)
	dev := createOrgTestUser(t, env.db, "dev", models.GlobalRoleDev)
	outsider := createOrgTestUser(t, env.db, "outsider", models.GlobalRoleNone)

	root, err := env.unitService.CreateRoot(dev.ID, CreateChildInput{Name: "Conselho Geral"})
	require.NoError(t, err)
	exec, err := env.unitService.CreateChild(dev.ID, root.ID, CreateChildInput{Name: "Executivo"})
	require.NoError(t, err)

	_, err = env.unitService.Deactivate(exec.ID, outsider.ID)
	require.ErrorIs(t, err, ErrUnitPermissionDenied)

	deactivated, err := env.unitService.Deactivate(exec.ID, dev.ID)
	require.NoError(t, err)
	require.False(t, deactivated.IsActive)

	// The deactivated subtree disappears from the tree; the row survives.
	tree, err := env.unitService.GetTree(nil)
	require.NoError(t, err)
	require.Empty(t, tree.Children)

	var stored models.OrgUnit
	require.NoError(t, env.db.First(&stored, "id = ?", exec.ID).Error)
	require.False(t, stored.IsActive)

	_, err = env.unitService.CreateChild(dev.ID, exec.ID, CreateChildInput{Name: "Setor"})
	require.ErrorIs(t, err, ErrParentInactive)
}
