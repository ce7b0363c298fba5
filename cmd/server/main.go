package main

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"github.com/fortunedraw/backend/internal/auth"
	"github.com/fortunedraw/backend/internal/config"
	"github.com/fortunedraw/backend/internal/handlers"
	"github.com/fortunedraw/backend/internal/models"
)

func main() {
	// Load config & init
	appCfg := config.Load()
	db := config.InitDB(appCfg)
	models.Migrate(db)
	auth.Init(appCfg.JWTSecret)

	log := logger.Init("fortunedraw", true, false, io.Discard)
	defer log.Close()

	// Setup router
	r := gin.Default()
	r.Use(config.CORSMiddleware())

	api := r.Group("/api/v1")
	{
		// Auth
		api.POST("/auth/register", handlers.Register)
		api.POST("/auth/login", handlers.Login)
		api.POST("/admin/login", handlers.AdminLogin)

		// Public lottery reads
		api.GET("/lottery/active", handlers.GetActiveLotteries)
		api.GET("/lottery/winners", handlers.GetWinners)
		api.GET("/lottery/:eventId/stats", handlers.GetLotteryStats)

		// Participant endpoints
		user := api.Group("", handlers.RequireUser())
		{
			user.GET("/lottery/:eventId/winning-chance", handlers.GetUserWinningChance)
			user.GET("/tickets", handlers.GetUserTickets)
			user.GET("/tickets/stats", handlers.GetTicketStats)
			user.GET("/referrals", handlers.GetUserReferrals)
			user.GET("/referrals/stats", handlers.GetReferralStats)
			user.POST("/payments", handlers.SubmitPayment)
		}

		// Back-office
		admin := api.Group("/admin", handlers.RequireAdmin())
		{
			admin.POST("/lottery/:eventId/draw",
				handlers.RequireAdmin(models.RoleSuperAdmin), handlers.DrawWinner)

			events := admin.Group("/lottery-events")
			{
				events.GET("", handlers.ListEvents)
				events.GET("/:id", handlers.GetEvent)
				events.POST("", handlers.CreateEvent)
				events.PUT("/:id", handlers.UpdateEvent)
				events.PATCH("/:id/status", handlers.UpdateEventStatus)
			}

			admin.GET("/payments", handlers.ListPayments)
			admin.POST("/payments/:id/approve", handlers.ApprovePayment)
			admin.POST("/payments/:id/reject", handlers.RejectPayment)

			admin.GET("/referrals/:userId/tree", handlers.GetReferralTree)

			users := admin.Group("/users", handlers.RequireAdmin(models.RoleSuperAdmin))
			{
				users.POST("", handlers.CreateAdminUser)
				users.GET("", handlers.ListAdminUsers)
				users.GET("/:id", handlers.GetAdminUser)
				users.PUT("/:id", handlers.UpdateAdminUser)
				users.DELETE("/:id", handlers.DeleteAdminUser)
			}
		}
	}

	// Start the HTTP server (port from env or default)
	r.Run(":" + appCfg.Port)
}
