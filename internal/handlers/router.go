package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mroshb/gamevault/internal/middleware"
)

// NewRouter wires the HTTP surface.
func NewRouter(
	userHandler *UserHandler,
	gameHandler *GameHandler,
	adminHandler *AdminHandler,
	limiter *middleware.RateLimiter,
	jwtSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	// Public routes get the IP budget; authenticated groups run the same
	// middleware after Auth so the per-user budget applies too.
	user := api.Group("/user")
	{
		public := user.Group("", middleware.RateLimit(limiter))
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.GET("/security-question", userHandler.SecurityQuestion)
		public.POST("/reset-password", userHandler.ResetPassword)

		authed := user.Group("", middleware.Auth(jwtSecret), middleware.RateLimit(limiter))
		authed.GET("/profile", userHandler.Profile)
		authed.POST("/redeem-vip", userHandler.RedeemVip)
		authed.POST("/redeem-payment", userHandler.RedeemPayment)
		authed.GET("/games", userHandler.OwnedGames)
		authed.GET("/payments", userHandler.PaymentHistory)
	}

	games := api.Group("/games", middleware.Auth(jwtSecret), middleware.RateLimit(limiter))
	{
		games.GET("/search", gameHandler.Search)
		games.GET("/:id", gameHandler.Get)
		games.POST("/purchase", gameHandler.Purchase)
	}

	admin := api.Group("/admin", middleware.Auth(jwtSecret), middleware.AdminOnly())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.POST("/users/:id/points", adminHandler.AdjustPoints)

		admin.GET("/games", adminHandler.ListGames)
		admin.POST("/games", adminHandler.CreateGame)
		admin.PATCH("/games/:id", adminHandler.UpdateGame)
		admin.DELETE("/games/:id", adminHandler.DeleteGame)
		admin.POST("/games/upload", adminHandler.UploadGames)

		admin.POST("/codes/:kind/generate", adminHandler.GenerateCodes)
		admin.GET("/codes/:kind", adminHandler.ListCodes)
		admin.PATCH("/codes/:kind/:id", adminHandler.UpdateCode)
		admin.DELETE("/codes/:kind/:id", adminHandler.DeleteCode)
		admin.DELETE("/codes/:kind", adminHandler.DeleteAllCodes)
		admin.POST("/codes/:kind/upload", adminHandler.UploadCodes)
	}

	return r
}
