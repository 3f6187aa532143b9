// Package main is the entry point for the wallet service. It wires the
// database, cache, services and HTTP transport together and starts the
// server.
package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/vector-10/wallet-service-lendsqr/internal/config"
	"github.com/vector-10/wallet-service-lendsqr/internal/handlers"
	"github.com/vector-10/wallet-service-lendsqr/internal/metrics"
	"github.com/vector-10/wallet-service-lendsqr/internal/repositories"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/karma"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/user"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/wallet"
)

func main() {
	config.LoadEnv()

	db, err := repositories.OpenDB()
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	log.Println("connected to postgres")

	redisClient := repositories.NewRedisClient(&repositories.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	walletCache := repositories.NewWalletCache(redisClient, 24*time.Hour)
	defer walletCache.Close()

	currency := config.GetEnv("WALLET_CURRENCY", "NGN")
	minimumBalance := config.GetDecimalEnv("WALLET_MINIMUM_BALANCE", "100.00")

	ledgerRepo := repositories.NewLedgerRepository(db)
	userRepo := repositories.NewUserRepository(db)

	karmaClient := karma.NewClient(
		config.GetEnv("ADJUTOR_BASE_URL", "https://adjutor.lendsqr.com/v2"),
		config.GetEnv("ADJUTOR_API_KEY", ""),
	)

	walletService := wallet.NewService(ledgerRepo, walletCache, wallet.Config{
		Currency:       currency,
		MinimumBalance: minimumBalance,
	}, metrics.NewCollector())

	userService := user.NewService(userRepo, karmaClient, user.Config{
		EncryptionKey:  config.GetEnv("ENCRYPTION_KEY", ""),
		Currency:       currency,
		MinimumBalance: minimumBalance,
	})

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	handlers.SetupRoutes(app, userService, walletService)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
