package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eliasandraade/lumenplus-app/internal/auth"
	"github.com/eliasandraade/lumenplus-app/internal/config"
	"github.com/eliasandraade/lumenplus-app/internal/database"
	"github.com/eliasandraade/lumenplus-app/internal/handlers"
	"github.com/eliasandraade/lumenplus-app/internal/middleware"
	"github.com/eliasandraade/lumenplus-app/internal/repository"
	"github.com/eliasandraade/lumenplus-app/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logrus.Fatalf("Failed to add indexes: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	unitRepo := repository.NewOrgUnitRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)

	// Services
	tokens := auth.NewTokenService(cfg.JWTSecret)
	permissions := services.NewPermissionService(membershipRepo)
	authService := services.NewAuthService(userRepo, tokens)
	unitService := services.NewOrgUnitService(unitRepo, userRepo, permissions)
	membershipService := services.NewMembershipService(membershipRepo, unitRepo, permissions)
	inviteService := services.NewInviteService(inviteRepo, membershipRepo, unitRepo, userRepo, permissions, cfg.InviteExpirationDays)
	noticeService := services.NewNoticeService(noticeRepo, membershipRepo, userRepo, permissions, cfg.NoticeExpirationDays)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	unitHandler := handlers.NewOrgUnitHandler(unitService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	noticeHandler := handlers.NewNoticeHandler(noticeService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Lumen+ API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		org := api.Group("/org")
		org.Use(middleware.RequireAuth(tokens))
		{
			org.GET("/tree", unitHandler.GetTree)
			org.POST("/root", unitHandler.CreateRoot)

			units := org.Group("/units/:id")
			{
				units.GET("", unitHandler.GetUnit)
				units.POST("/children", unitHandler.CreateChild)
				units.POST("/deactivate", unitHandler.Deactivate)
				units.GET("/members", membershipHandler.ListMembers)
				units.PUT("/members/:user_id/role", membershipHandler.SetRole)
				units.DELETE("/members/:user_id", membershipHandler.RemoveMember)
				units.POST("/invites", inviteHandler.Invite)
				units.GET("/invites", inviteHandler.UnitInvites)
			}

			org.POST("/invites/:id/accept", inviteHandler.Accept)
			org.POST("/invites/:id/reject", inviteHandler.Reject)

			org.GET("/my/memberships", membershipHandler.MyMemberships)
			org.GET("/my/invites", inviteHandler.MyInvites)
		}

		// Notice routes (protected)
		notices := api.Group("/notices")
		notices.Use(middleware.RequireAuth(tokens))
		{
			notices.POST("", noticeHandler.Send)
			notices.POST("/preview", noticeHandler.Preview)
			notices.GET("", noticeHandler.Inbox)
			notices.GET("/sent", noticeHandler.Sent)
			notices.POST("/:id/read", noticeHandler.MarkRead)
			notices.POST("/read-all", noticeHandler.MarkAllRead)
		}
	}

	// Start server
	logrus.Infof("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
