// routes.go - Builds the gin engine with every API route

package routes

import (
	"net/http"
	"strings"

	"lusionbeatz-backend/config"
	"lusionbeatz-backend/handlers"
	"lusionbeatz-backend/logging"
	"lusionbeatz-backend/middleware"
	"lusionbeatz-backend/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup wires the API. hub may be nil, in which case the admin live feed is
// not mounted.
func Setup(logger *zap.Logger, hub *realtime.Hub) *gin.Engine {
	cfg := config.Load()
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(logger))
	r.MaxMultipartMemory = 8 << 20

	r.Static(handlers.UploadsRoute, cfg.UploadDir)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")

	// Public routes (no authentication required)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/verify-otp", handlers.VerifyOTP)
		auth.POST("/resend-otp", handlers.ResendOTP)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}
	api.GET("/samples", handlers.ListSamples)
	api.GET("/checkout/config", handlers.CheckoutInfo)

	// Protected routes (require a session)
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/samples/my-uploads", handlers.MyUploads)
		authed.POST("/samples/upload", handlers.UploadSample)

		authed.GET("/cart", handlers.GetCart)
		authed.POST("/cart/add", handlers.AddToCart)
		authed.POST("/cart/remove", handlers.RemoveFromCart)

		authed.POST("/orders/create", handlers.CreateOrder)
		authed.GET("/orders/my-purchases", handlers.MyPurchases)

		authed.PATCH("/users/profile", handlers.UpdateProfile)
		authed.PATCH("/users/bank-details", handlers.UpdateBankDetails)
	}
	api.GET("/samples/:id", middleware.OptionalAuthMiddleware(), handlers.GetSample)

	// Admin routes (require role "admin")
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", handlers.AdminListUsers)
		admin.GET("/samples", handlers.AdminListSamples)
		admin.GET("/orders", handlers.AdminListOrders)
		admin.GET("/stats", handlers.AdminStats)
		admin.POST("/approve-user", handlers.ApproveUser)
		admin.POST("/approve-sample", handlers.ApproveSample)
		admin.POST("/reject-sample", handlers.RejectSample)
		admin.DELETE("/users/:id", handlers.AdminDeleteUser)
		admin.DELETE("/samples/:id", handlers.AdminDeleteSample)
		if hub != nil {
			admin.GET("/live", hub.ServeWS)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNotFound)
	})
	return r
}
