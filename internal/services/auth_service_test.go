package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eliasandraade/lumenplus-app/internal/auth"
	"github.com/eliasandraade/lumenplus-app/internal/database"
	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
)

type authTestEnv struct {
	db          *gorm.DB
	authService *AuthService
	tokens      *auth.TokenService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	database.SetDB(db)

	tokens := auth.NewTokenService("test-secret")
	userRepo := repository.NewUserRepository(db)
	authService := NewAuthService(userRepo, tokens)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		authService: authService,
		tokens:      tokens,
	}
}

func TestAuthService_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Signup(SignupInput{
		Username: "  maria  ",
		FullName: "Maria da Silva",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "maria", user.Username)
	require.True(t, user.IsActive)
	require.Equal(t, models.GlobalRoleNone, user.GlobalRole)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestAuthService_Signup_Validation(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(SignupInput{Username: "maria", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = env.authService.Signup(SignupInput{Username: "maria", Password: "password123"})
	require.NoError(t, err)

	_, err = env.authService.Signup(SignupInput{Username: "maria", Password: "password456"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	created, err := env.authService.Signup(SignupInput{Username: "maria", Password: "password123"})
	require.NoError(t, err)

	user, token, err := env.authService.Login(LoginInput{Username: "maria", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, token)

	userID, err := env.tokens.Validate(token)
	require.NoError(t, err)
	require.Equal(t, created.ID, userID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(SignupInput{Username: "maria", Password: "password123"})
	require.NoError(t, err)

	_, _, err = env.authService.Login(LoginInput{Username: "maria", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.authService.Login(LoginInput{Username: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	created, err := env.authService.Signup(SignupInput{Username: "maria", Password: "password123"})
	require.NoError(t, err)

	user, err := env.authService.GetUser(created.ID)
	require.NoError(t, err)
	require.Equal(t, "maria", user.Username)
}
