package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finances/internal/config"
	"finances/internal/database"
	"finances/internal/handlers"
	"finances/internal/logger"
	"finances/internal/middleware"
	"finances/internal/pricing"
	"finances/internal/provider"
	"finances/internal/repository"
	"finances/internal/services"
	"finances/internal/validator"

	_ "finances/internal/docs" // Import swagger docs
)

// @title           Finances API
// @version         1.0
// @description     Personal finance backend: cash assets with income and expense ledgers, custom currencies, crypto portfolios and multi-currency totals.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.New(dbManager.DB())
	fiat, crypto := newProviders(appConfig)
	resolver := pricing.NewResolver(crypto, appConfig.CryptoQuoteAsset, appConfig.MissingPricePolicy)

	priceSyncService := services.NewPriceSyncService(store, fiat)
	if appConfig.PriceRefreshInterval > 0 {
		log.Infof("Refreshing currency prices every %s", appConfig.PriceRefreshInterval)
		go priceSyncService.Run(ctx, appConfig.PriceRefreshInterval)
	}

	router := setupRouter(appConfig, store, resolver, priceSyncService)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting finances backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newProviders(cfg *config.Config) (*provider.FCSClient, *provider.BinanceClient) {
	fiat := provider.NewFCSClient(cfg.FCSAPIKey,
		provider.WithBaseURL(cfg.FCSBaseURL),
		provider.WithRateLimit(cfg.PriceRateLimit),
		provider.WithTimeout(cfg.PriceTimeout),
	)
	crypto := provider.NewBinanceClient(
		provider.WithBaseURL(cfg.BinanceBaseURL),
		provider.WithRateLimit(cfg.PriceRateLimit),
		provider.WithTimeout(cfg.PriceTimeout),
	)
	return fiat, crypto
}

func setupRouter(
	cfg *config.Config,
	store *repository.Store,
	resolver *pricing.Resolver,
	priceSyncService services.PriceSyncServicer,
) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(store)
	userService := services.NewUserService(store, cfg.DefaultBaseCurrency)
	assetService := services.NewAssetService(store)
	currencyService := services.NewCurrencyService(store)
	categoryService := services.NewCategoryService(store)
	transactionService := services.NewTransactionService(store)
	reportService := services.NewReportService(store, resolver, cfg.DefaultBaseCurrency)
	cryptoCurrencyService := services.NewCryptoCurrencyService(store, resolver)
	cryptoPortfolioService := services.NewCryptoPortfolioService(store, resolver)
	cryptoAssetService := services.NewCryptoAssetService(store)
	cryptoTransactionService := services.NewCryptoTransactionService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	assetHandler := handlers.NewAssetHandler(assetService, reportService, auditService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, reportService, auditService)
	cryptoCurrencyHandler := handlers.NewCryptoCurrencyHandler(cryptoCurrencyService)
	cryptoPortfolioHandler := handlers.NewCryptoPortfolioHandler(cryptoPortfolioService, auditService)
	cryptoAssetHandler := handlers.NewCryptoAssetHandler(cryptoAssetService, auditService)
	cryptoTransactionHandler := handlers.NewCryptoTransactionHandler(cryptoTransactionService, auditService)
	priceSyncHandler := handlers.NewPriceSyncHandler(priceSyncService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// Pipeline routes
	pipeline := v1.Group("/pipeline", middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/currency-prices/refresh", priceSyncHandler.RefreshPrices)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	users := protected.Group("/users/me")
	users.GET("", userHandler.GetMe)
	users.POST("/password", userHandler.ChangePassword)
	users.PUT("/base-currency", userHandler.SetBaseCurrency)
	users.PUT("/base-crypto-portfolio", userHandler.SetBaseCryptoPortfolio)

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.GET("/total", assetHandler.TotalAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.GET("/:id/totals", assetHandler.AssetTotals)

	currencies := protected.Group("/currencies")
	currencies.POST("", currencyHandler.CreateCurrency)
	currencies.GET("", currencyHandler.GetCurrencies)
	currencies.GET("/:id", currencyHandler.GetCurrency)
	currencies.PUT("/:id", currencyHandler.UpdateCurrency)
	currencies.DELETE("/:id", currencyHandler.DeleteCurrency)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/total", transactionHandler.TotalByPeriod)
	transactions.GET("/total-by-category", transactionHandler.TotalCategoriesByPeriod)
	transactions.GET("/by-day", transactionHandler.TransactionsByDay)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	cryptoCurrencies := protected.Group("/crypto-currencies")
	cryptoCurrencies.GET("", cryptoCurrencyHandler.GetCryptoCurrencies)
	cryptoCurrencies.GET("/:id", cryptoCurrencyHandler.GetCryptoCurrency)
	cryptoCurrencies.GET("/:id/price", cryptoCurrencyHandler.GetCryptoCurrencyPrice)

	cryptoPortfolios := protected.Group("/crypto-portfolios")
	cryptoPortfolios.POST("", cryptoPortfolioHandler.CreatePortfolio)
	cryptoPortfolios.GET("", cryptoPortfolioHandler.GetPortfolios)
	cryptoPortfolios.GET("/:id", cryptoPortfolioHandler.GetPortfolio)
	cryptoPortfolios.PUT("/:id", cryptoPortfolioHandler.UpdatePortfolio)
	cryptoPortfolios.DELETE("/:id", cryptoPortfolioHandler.DeletePortfolio)
	cryptoPortfolios.GET("/:id/total", cryptoPortfolioHandler.PortfolioTotal)

	cryptoAssets := protected.Group("/crypto-assets")
	cryptoAssets.GET("", cryptoAssetHandler.GetCryptoAssets)
	cryptoAssets.GET("/:id", cryptoAssetHandler.GetCryptoAsset)
	cryptoAssets.DELETE("/:id", cryptoAssetHandler.DeleteCryptoAsset)
	cryptoAssets.GET("/:id/total-buy", cryptoAssetHandler.TotalBuy)

	cryptoTransactions := protected.Group("/crypto-transactions")
	cryptoTransactions.POST("", cryptoTransactionHandler.CreateCryptoTransaction)
	cryptoTransactions.GET("", cryptoTransactionHandler.GetCryptoTransactions)
	cryptoTransactions.GET("/:id", cryptoTransactionHandler.GetCryptoTransaction)
	cryptoTransactions.PUT("/:id", cryptoTransactionHandler.UpdateCryptoTransaction)
	cryptoTransactions.DELETE("/:id", cryptoTransactionHandler.DeleteCryptoTransaction)

	return router
}
