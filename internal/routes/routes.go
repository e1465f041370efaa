// Package routes wires repositories, services and handlers together and
// registers every endpoint on the fiber app.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"payvault/internal/handlers"
	"payvault/internal/middleware"
	"payvault/internal/repositories"
	"payvault/internal/repositories/cache"
	"payvault/internal/services/auth"
	"payvault/internal/services/ledger"
	"payvault/internal/services/transaction"
	"payvault/internal/services/wallet"
)

// SetupRoutes builds the dependency graph and registers all routes.
// cacheService may be nil; every read falls through to Postgres then.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.Service) {
	userRepo := repositories.NewUserRepository(db, cacheService)
	walletRepo := repositories.NewWalletRepository(db, cacheService)
	transactionRepo := repositories.NewTransactionRepository(db)
	ledgerStore := repositories.NewLedgerStore(db)

	authService := auth.NewService(userRepo)
	walletService := wallet.NewService(walletRepo, userRepo)
	queryService := transaction.NewService(transactionRepo)

	var invalidator ledger.CacheInvalidator
	if cacheService != nil {
		invalidator = cacheService
	}
	ledgerService := ledger.NewService(ledgerStore, invalidator)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService, ledgerService, queryService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, queryService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", middleware.RequireAuth, authHandler.Me)

	walletGroup := api.Group("/wallet", middleware.RequireAuth)
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/balance", walletHandler.GetBalance)
	walletGroup.Get("/stats", walletHandler.GetStats)
	walletGroup.Post("/deposit", walletHandler.Deposit)
	walletGroup.Post("/withdraw", walletHandler.Withdraw)

	transactionGroup := api.Group("/transactions", middleware.RequireAuth)
	transactionGroup.Post("/transfer", transactionHandler.Transfer)
	transactionGroup.Get("/", transactionHandler.List)
	transactionGroup.Get("/:id", transactionHandler.GetByID)
	transactionGroup.Post("/:id/reverse", transactionHandler.Reverse)
}
