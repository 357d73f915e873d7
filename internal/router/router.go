package router

import (
	"log"
	"net/http"
	"strings"
	"time"

	"go-jewel-backoffice/internal/config"
	"go-jewel-backoffice/internal/handlers"
	"go-jewel-backoffice/internal/metrics"
	"go-jewel-backoffice/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Used when CORS_ORIGINS parses to nothing; cors.New panics on an empty list.
const defaultOrigin = "http://localhost:5173"

// New builds the gin engine with every route mounted.
func New(cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		log.Printf("No CORS origins configured, allowing %s", defaultOrigin)
		origins = []string{defaultOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", cfg.UploadDir)

	r.POST("/api/auth/login", middleware.RateLimit(cfg.Auth.LoginRate), handlers.Login)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF & ADMIN
		api.GET("/bills", handlers.GetBills)
		api.GET("/bills/:id", handlers.GetBill)
		api.POST("/bills", handlers.CreateBill)
		api.POST("/bills/:id/print", handlers.StartPrint)
		api.GET("/print-jobs/:id", handlers.GetPrintJob)
		api.POST("/print-jobs/:id/ack", handlers.AckPrint)

		api.POST("/layaway/calculate", handlers.CalculateLayaway)
		api.GET("/layaways", handlers.GetOpenLayaways)

		api.POST("/returns/calculate", handlers.CalculateReturn)
		api.POST("/returns", handlers.CreateReturn)
		api.GET("/returns", handlers.GetReturns)

		api.GET("/exchanges", handlers.GetExchanges)
		api.GET("/exchanges/:id", handlers.GetExchange)

		api.GET("/categories", handlers.GetCategories)
		api.GET("/items", handlers.GetItems)
		api.GET("/gold-rates", handlers.GetGoldRates)
		api.GET("/gold-rates/latest", handlers.GetLatestGoldRate)

		api.GET("/customers", handlers.GetCustomers)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.POST("/customers", handlers.AddCustomer)

		api.GET("/dashboard/staff", handlers.GetStaffDashboard)

		// PERMISSION FLAGS
		api.PUT("/bills/:id", middleware.RequirePermission(middleware.PermEditBills), handlers.UpdateBill)

		stock := api.Group("/items")
		stock.Use(middleware.RequirePermission(middleware.PermEditStock))
		{
			stock.POST("", handlers.AddItem)
			stock.PUT("/:id", handlers.UpdateItem)
			stock.POST("/:id/image", handlers.UploadItemImage(cfg.UploadDir, cfg.BaseURL))
		}

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI(cfg.GeminiAPIKey))

			admin.POST("/returns/:id/approve", handlers.ApproveReturn)
			admin.POST("/returns/:id/complete", handlers.CompleteReturn)

			admin.POST("/categories", handlers.AddCategory)
			admin.DELETE("/categories/:id", handlers.DeleteCategory)
			admin.DELETE("/items/:id", handlers.DeleteItem)
			admin.POST("/gold-rates", handlers.AddGoldRate)

			admin.GET("/users", handlers.GetUsers)
			admin.PUT("/users/:id/permissions", handlers.UpdateUserPermissions)

			admin.GET("/dashboard/admin", handlers.GetAdminDashboard)
			admin.GET("/reports/valuation", handlers.GetStockValuation)
			admin.GET("/audit-logs", handlers.GetAuditLogs)
			admin.GET("/audit-logs/export", handlers.ExportAuditLogs)
		}
	}

	// --- Serve the React build ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")

	// SPA catch-all: unknown API paths stay JSON 404s
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.File("./web/index.html")
	})

	return r
}
