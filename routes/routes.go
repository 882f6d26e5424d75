package routes

import (
	"net/http"
	"time"

	"climate-hub/controllers"
	middlewares "climate-hub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries the middleware settings that depend on configuration.
type Options struct {
	CORSOrigins      []string
	ReportLimiter    middlewares.HitCounter
	ReportDailyLimit int
}

func SetupRoutes(r *gin.Engine, opts Options) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	SetupReportRoutes(api, opts)
	SetupFaqRoutes(api)
	SetupClimateRoutes(api)
	SetupShopRoutes(api)
}

func SetupReportRoutes(api *gin.RouterGroup, opts Options) {
	api.POST("/admin/login", controllers.AdminLogin)

	reports := api.Group("/reports")
	reports.POST("", middlewares.ReportRateLimiter(opts.ReportLimiter, opts.ReportDailyLimit), controllers.CreateReport)
	reports.GET("", controllers.GetReports)
	reports.GET("/stats", controllers.GetReportStats)
	reports.GET("/:id", controllers.GetReportByID)

	// moderation
	reports.PATCH("/:id/status", middlewares.AdminOnly(), controllers.UpdateReportStatus)
	reports.DELETE("/:id", middlewares.AdminOnly(), controllers.DeleteReport)
}

func SetupFaqRoutes(api *gin.RouterGroup) {
	api.POST("/faqs", controllers.CreateFaq)
	api.GET("/faqs", controllers.GetFaqs)
}

func SetupClimateRoutes(api *gin.RouterGroup) {
	api.GET("/air-quality", controllers.GetAirQuality)
	api.GET("/map/locations", controllers.GetMapLocations)
	api.GET("/map/reports", controllers.GetMapReports)
}

func SetupShopRoutes(api *gin.RouterGroup) {
	api.GET("/products", controllers.GetProducts)
	api.GET("/products/:id", controllers.GetProductByID)
	api.POST("/cart/quote", controllers.QuoteCart)
	api.POST("/checkout", controllers.Checkout)
	api.GET("/orders/:id", controllers.GetOrder)
	api.GET("/config/payment", controllers.GetPaymentConfig)
}
