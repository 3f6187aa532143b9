// Package handlers defines the HTTP surface of the service: request parsing,
// response shaping, and status-code mapping around the wallet and identity
// services.
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vector-10/wallet-service-lendsqr/internal/middleware"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/user"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/wallet"
)

// SetupRoutes wires all endpoints onto the fiber app.
func SetupRoutes(app *fiber.App, userService user.Service, walletService wallet.Service) {
	userHandler := NewUserHandler(userService)
	walletHandler := NewWalletHandler(walletService)

	app.Get("/health", Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})

	api.Post("/register", authLimiter, userHandler.Register)
	api.Post("/login", authLimiter, userHandler.Login)

	protected := api.Use(middleware.Auth())

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetBalance)
	walletGroup.Get("/transactions", walletHandler.GetTransactionHistory)
	walletGroup.Post("/fund", walletHandler.FundWallet)
	walletGroup.Post("/withdraw", walletHandler.WithdrawFunds)
	walletGroup.Post("/transfer", walletHandler.TransferFunds)
}
