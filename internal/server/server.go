// Package server assembles the HTTP application: services over the database,
// the category tree session cache, handlers and the gin router.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/zdy718/ClearDollar/internal/config"
	_ "github.com/zdy718/ClearDollar/internal/docs" // Import swagger docs
	"github.com/zdy718/ClearDollar/internal/handlers"
	"github.com/zdy718/ClearDollar/internal/middleware"
	"github.com/zdy718/ClearDollar/internal/services"
	"github.com/zdy718/ClearDollar/internal/session"
	"github.com/zdy718/ClearDollar/internal/validator"
)

// App is the assembled application.
type App struct {
	Router   *gin.Engine
	Sessions *session.Manager
}

// New wires services, handlers and routes. bank may be nil to disable bank
// sync; seed drives the demo data generator.
func New(cfg *config.Config, db *gorm.DB, bank services.BankSyncer, seed uint64) *App {
	// Initialize services
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	auditService := services.NewAuditService(db)
	sessions := session.NewManager(
		services.NewRecordStore(categoryService, transactionService),
		cfg.SessionCacheSize,
		cfg.SessionTTL,
	)
	budgetService := services.NewBudgetService(sessions)
	demoService := services.NewDemoService(categoryService, transactionService, seed)

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, budgetService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, bank, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	demoHandler := handlers.NewDemoHandler(demoService, budgetService, auditService)

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  splitOrigins(cfg.CORSOrigins),
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.UserHeader, "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group, every route is scoped to one user
	v1 := router.Group("/api/v1")
	v1.Use(middleware.UserScope())

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PATCH("/:id", categoryHandler.PatchCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("/upload", transactionHandler.UploadCSV)
	transactions.POST("/bank-sync", transactionHandler.BankSync)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PATCH("/:id/category", transactionHandler.TagTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category tree routes
	budget := v1.Group("/budget/:mode")
	budget.GET("", budgetHandler.GetView)
	budget.GET("/tree", budgetHandler.GetTree)
	budget.POST("/restructure", budgetHandler.Restructure)
	budget.POST("/nodes", budgetHandler.CreateNode)
	budget.PATCH("/nodes/:id", budgetHandler.UpdateNode)
	budget.POST("/resync", budgetHandler.Resync)

	v1.POST("/demo/seed", demoHandler.Seed)

	return &App{Router: router, Sessions: sessions}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
