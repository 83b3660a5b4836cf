package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"anoa.com/reviewrewards/internal/config"
	"anoa.com/reviewrewards/internal/middleware"
	"anoa.com/reviewrewards/pkg/storage"

	adminHttp "anoa.com/reviewrewards/internal/modules/admin/delivery/http"
	adminService "anoa.com/reviewrewards/internal/modules/admin/service"

	attachmentHttp "anoa.com/reviewrewards/internal/modules/attachment/delivery/http"
	attachmentRepo "anoa.com/reviewrewards/internal/modules/attachment/repository"
	attachmentService "anoa.com/reviewrewards/internal/modules/attachment/service"

	leaderboardHttp "anoa.com/reviewrewards/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "anoa.com/reviewrewards/internal/modules/leaderboard/repository"
	leaderboardService "anoa.com/reviewrewards/internal/modules/leaderboard/service"

	ledgerHttp "anoa.com/reviewrewards/internal/modules/ledger/delivery/http"
	ledgerRepo "anoa.com/reviewrewards/internal/modules/ledger/repository"
	ledgerService "anoa.com/reviewrewards/internal/modules/ledger/service"

	missionHttp "anoa.com/reviewrewards/internal/modules/mission/delivery/http"
	missionRepo "anoa.com/reviewrewards/internal/modules/mission/repository"
	missionService "anoa.com/reviewrewards/internal/modules/mission/service"

	notiHttp "anoa.com/reviewrewards/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/reviewrewards/internal/modules/notification/repository"
	notifService "anoa.com/reviewrewards/internal/modules/notification/service"

	profileHttp "anoa.com/reviewrewards/internal/modules/profile/delivery/http"
	profileService "anoa.com/reviewrewards/internal/modules/profile/service"

	redemptionHttp "anoa.com/reviewrewards/internal/modules/redemption/delivery/http"
	redemptionRepo "anoa.com/reviewrewards/internal/modules/redemption/repository"
	redemptionService "anoa.com/reviewrewards/internal/modules/redemption/service"

	searchService "anoa.com/reviewrewards/internal/modules/search/service"

	statHttp "anoa.com/reviewrewards/internal/modules/stat/delivery/http"
	statService "anoa.com/reviewrewards/internal/modules/stat/service"

	userHttp "anoa.com/reviewrewards/internal/modules/user/delivery/http"
	userRepo "anoa.com/reviewrewards/internal/modules/user/repository"
	userService "anoa.com/reviewrewards/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewMissionSearchService(meiliClient)

	authSvc := userService.NewAuthService(users, searchSvc)
	authHandler := userHttp.NewAuthHandler(authSvc)

	adminSvc := adminService.NewAdminService(users, imageStorage)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	lbRepo := leaderboardRepo.NewLeaderboardRepository(db)
	leaderboardSvc := leaderboardService.NewLeaderboardService(lbRepo, redisClient)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	profileSvc := profileService.NewProfileService(users, imageStorage, lbRepo)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	attachments := attachmentRepo.NewAttachmentRepository(db)
	attachmentSvc := attachmentService.NewAttachmentService(attachments, imageStorage)
	attachmentHandler := attachmentHttp.NewAttachmentHandler(attachmentSvc)

	notifications := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	ledgers := ledgerRepo.NewLedgerRepository(db)
	ledgerSvc := ledgerService.NewLedgerService(ledgers)
	ledgerHandler := ledgerHttp.NewLedgerHandler(ledgerSvc)

	missions := missionRepo.NewMissionRepository(db)
	missionSvc := missionService.NewMissionService(missions, ledgerSvc, notificationSvc, attachments, searchSvc)
	missionHandler := missionHttp.NewMissionHandler(missionSvc)

	redemptions := redemptionRepo.NewRedemptionRepository(db)
	redemptionSvc := redemptionService.NewRedemptionService(redemptions, ledgerSvc, notificationSvc)
	redemptionHandler := redemptionHttp.NewRedemptionHandler(redemptionSvc)

	statSvc := statService.NewStatService(users, db)
	statHandler := statHttp.NewStatHandler(statSvc)

	// Orphan cleanup runs for the lifetime of the process.
	go func() {
		ticker := time.NewTicker(cfg.OrphanCleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			log.Println("Running orphan attachment cleanup...")
			if err := attachmentSvc.CleanupOrphanAttachments(context.Background()); err != nil {
				log.Printf("Error cleaning up orphan attachments: %v", err)
			}
		}
	}()

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)

			adminGroup.POST("/missions", missionHandler.CreateMission)
			adminGroup.PUT("/missions/:id", missionHandler.UpdateMission)
			adminGroup.DELETE("/missions/:id", missionHandler.DeleteMission)

			adminGroup.GET("/participations", missionHandler.ListParticipations)
			adminGroup.POST("/participations/:id/approve", missionHandler.Approve)
			adminGroup.POST("/participations/:id/reject", missionHandler.Reject)

			adminGroup.GET("/redemptions", redemptionHandler.List)
			adminGroup.GET("/redemptions/:id", redemptionHandler.GetRequest)
			adminGroup.POST("/redemptions/:id/approve", redemptionHandler.Approve)
			adminGroup.POST("/redemptions/:id/reject", redemptionHandler.Reject)

			adminGroup.POST("/points/adjust", ledgerHandler.AdjustPoints)
			adminGroup.GET("/stats", statHandler.GetDashboardStats)
		}

		protected.GET("/users/count", statHandler.GetTotalUsers)

		// Mission routes
		protected.GET("/missions", missionHandler.ListMissions)
		protected.GET("/missions/:id", missionHandler.GetMission)
		protected.POST("/missions/:id/join", missionHandler.Join)
		protected.POST("/missions/:id/submit", missionHandler.Submit)
		protected.GET("/participations/me", missionHandler.ListMyParticipations)

		// Points and redemption routes
		protected.GET("/points/balance", ledgerHandler.GetBalance)
		protected.GET("/points/history", ledgerHandler.GetHistory)
		protected.POST("/redemptions", redemptionHandler.CreateRequest)
		protected.GET("/redemptions/me", redemptionHandler.ListMine)
		protected.GET("/redemptions/:id", redemptionHandler.GetRequest)

		// Profile routes
		protected.GET("/profile/:username", profileHandler.GetProfileByUsername)
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Other protected routes
		protected.POST("/upload", attachmentHandler.UploadAttachment)
		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
