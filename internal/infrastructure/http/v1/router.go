package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"billhub/internal/core/codegen"
	"billhub/internal/domain/auth"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/catalogs/product"
	"billhub/internal/domain/delivery"
	"billhub/internal/domain/documents/invoice"
	"billhub/internal/domain/documents/quotation"
	"billhub/internal/domain/documents/receipt"
	"billhub/internal/domain/documents/statement"
	"billhub/internal/infrastructure/http/v1/handlers"
	"billhub/internal/infrastructure/http/v1/middleware"
	"billhub/internal/infrastructure/storage/postgres"
	"billhub/internal/infrastructure/storage/postgres/auth_repo"
	"billhub/internal/infrastructure/storage/postgres/catalog_repo"
	"billhub/internal/infrastructure/storage/postgres/document_repo"
	"billhub/pkg/logger"
	"billhub/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the shared database connection pool
	Pool *postgres.Pool

	// TxManager manages transactions over the pool
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTService issues and validates access tokens
	JWTService *auth.JWTService

	// AuthConfig tunes login lockout and password policy
	AuthConfig auth.ServiceConfig

	// Delivery sends documents and builds share links
	Delivery *delivery.Service

	// Clock supplies document timestamps; defaults to time.Now
	Clock codegen.Clock

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL is how long completed keys replay
	IdempotencyTTL time.Duration

	// Version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router with all repositories,
// services and handlers wired over the shared pool.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	auditSvc, err := postgres.NewAuditService(cfg.TxManager)
	if err != nil {
		return nil, err
	}
	num := numerator.New(cfg.Pool.Pool)

	// Catalogs
	clientRepo := catalog_repo.NewClientRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	businessRepo := catalog_repo.NewBusinessRepo(cfg.TxManager)

	clientSvc := client.NewService(clientRepo, num, cfg.TxManager)
	productSvc := product.NewService(productRepo, num, cfg.TxManager)
	businessSvc := business.NewService(businessRepo, num, cfg.TxManager)

	// Documents
	docRepo := document_repo.NewDocumentRepo(cfg.TxManager)
	quotationSvc := quotation.NewService(docRepo, cfg.TxManager, clock, clientSvc, businessSvc, auditSvc)
	invoiceSvc := invoice.NewService(docRepo, cfg.TxManager, clock, auditSvc)
	receiptSvc := receipt.NewService(docRepo)
	statementSvc := statement.NewService(docRepo, cfg.TxManager, clock, clientSvc, businessSvc, auditSvc)

	// Auth
	userRepo := auth_repo.NewUserRepo(cfg.TxManager)
	authSvc := auth.NewService(userRepo, cfg.TxManager, cfg.JWTService, cfg.AuthConfig)

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Public share surface (no auth; the UUID in the link is the capability)
	publicHandler := handlers.NewPublicHandler(base, quotationSvc, invoiceSvc, receiptSvc, statementSvc)
	publicHandler.RegisterRoutes(router.Group("/p"))

	// API v1
	api := router.Group("/api/v1")
	{
		public := api.Group("")

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTService))
		if cfg.IdempotencyEnabled {
			store := postgres.NewIdempotencyStore(cfg.TxManager, cfg.IdempotencyTTL)
			protected.Use(middleware.Idempotency(store))
		}

		authHandler := handlers.NewAuthHandler(base, authSvc)
		authHandler.RegisterRoutes(public, protected)

		// Catalogs
		catalogs := protected.Group("/catalog")
		RegisterCatalogRoutes(catalogs.Group("/clients"), handlers.NewClientHandler(base, clientSvc))
		RegisterCatalogRoutes(catalogs.Group("/products"), handlers.NewProductHandler(base, productSvc))
		RegisterCatalogRoutes(catalogs.Group("/businesses"), handlers.NewBusinessHandler(base, businessSvc))

		// Quotations
		q := handlers.NewQuotationHandler(base, quotationSvc, cfg.Delivery)
		quotations := protected.Group("/quotations")
		{
			quotations.GET("", q.List)
			quotations.POST("", q.Create)
			quotations.GET("/:id", q.Get)
			quotations.PUT("/:id", q.Update)
			quotations.DELETE("/:id", q.Delete)
			quotations.GET("/:id/links", q.Links)
			quotations.POST("/:id/send", q.Send)
			quotations.POST("/:id/won", q.Won)
			quotations.POST("/:id/rejected", q.Rejected)
			quotations.POST("/:id/lost", q.Lost)
			quotations.POST("/:id/clone", q.Clone)
		}

		// Invoices
		inv := handlers.NewInvoiceHandler(base, invoiceSvc, cfg.Delivery)
		rct := handlers.NewReceiptHandler(base, receiptSvc)
		invoices := protected.Group("/invoices")
		{
			invoices.GET("", inv.List)
			invoices.GET("/:id", inv.Get)
			invoices.DELETE("/:id", inv.Delete)
			invoices.POST("/:id/send", inv.Send)
			invoices.POST("/:id/payments", inv.RegisterPayment)
			invoices.POST("/:id/confirm-banking", inv.ConfirmBanking)
			invoices.GET("/:id/receipt", rct.ForInvoice)
		}

		// Receipts
		receipts := protected.Group("/receipts")
		{
			receipts.GET("", rct.List)
			receipts.GET("/:id", rct.Get)
			receipts.DELETE("/:id", rct.Delete)
		}

		// Statements
		stm := handlers.NewStatementHandler(base, statementSvc, cfg.Delivery)
		statements := protected.Group("/statements")
		{
			statements.GET("", stm.List)
			statements.POST("", stm.Generate)
			statements.GET("/:id", stm.Get)
			statements.POST("/:id/send", stm.Send)
		}
	}

	return router, nil
}
