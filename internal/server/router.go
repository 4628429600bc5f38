// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fundledger/internal/handlers"
	"fundledger/internal/middleware"
	"fundledger/internal/models"
	"fundledger/internal/services"
)

// Options configures the router.
type Options struct {
	PartnerDefaultPassword string
	OpsAPIKey              string
	// RequestLogging enables the access log middleware.
	RequestLogging bool
}

// NewRouter builds the full API on top of db.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	// Services
	userService := services.NewUserService(db, opts.PartnerDefaultPassword)
	accountService := services.NewAccountService(db)
	clientService := services.NewClientService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	drawingService := services.NewDrawingService(db, accountService)
	ledgerService := services.NewLedgerService(db)
	payrollService := services.NewPayrollService(db, userService)
	dashboardService := services.NewDashboardService(db, userService, accountService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, ledgerService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	drawingHandler := handlers.NewDrawingHandler(drawingService)
	clientHandler := handlers.NewClientHandler(clientService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	partnerHandler := handlers.NewPartnerHandler(userService, payrollService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Scheduled maintenance, authenticated by API key
	ops := v1.Group("/ops")
	ops.Use(middleware.OpsAuthMiddleware(opts.OpsAPIKey))
	ops.POST("/reconcile", ledgerHandler.OpsReconcile)

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Any authenticated user
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.GET("/drawings", drawingHandler.ListDrawings)
	protected.GET("/clients", clientHandler.ListClients)
	protected.GET("/partners", partnerHandler.ListPartners)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.GET("/dashboard/partner/:id", dashboardHandler.GetPartnerDashboard)

	// Admin only
	admin := protected.Group("/")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/accounts/reconcile", accountHandler.Reconcile)
	admin.GET("/ledger", ledgerHandler.ListUnified)

	transactions := admin.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.POST("/:id/paid", transactionHandler.MarkTransactionPaid)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	drawings := admin.Group("/drawings")
	drawings.POST("", drawingHandler.CreateDrawing)
	drawings.PUT("/:id", drawingHandler.UpdateDrawing)
	drawings.POST("/:id/repaid", drawingHandler.SetRepaid)
	drawings.DELETE("/:id", drawingHandler.DeleteDrawing)

	admin.POST("/clients", clientHandler.CreateClient)
	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.POST("/partners", partnerHandler.CreatePartner)
	admin.POST("/partners/:id/salaries", partnerHandler.SetSalary)
	admin.POST("/freelancer-payments", partnerHandler.RecordFreelancerPayment)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
