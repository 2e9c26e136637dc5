// Package webapi provides HTTP handlers and API endpoints for the bank API.
// It is organized into sub-packages for different domains:
// - auth: Signup and login
// - account: Account lifecycle and per-account history
// - transaction: Deposits, withdrawals and transfers
// - user: Per-user listings and the dashboard
// - alert: Transfer alerts of the caller
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/bankapi/pkg/app"
	accountweb "github.com/amirasaad/bankapi/webapi/account"
	alertweb "github.com/amirasaad/bankapi/webapi/alert"
	authweb "github.com/amirasaad/bankapi/webapi/auth"
	"github.com/amirasaad/bankapi/webapi/common"
	transactionweb "github.com/amirasaad/bankapi/webapi/transaction"
	userweb "github.com/amirasaad/bankapi/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	_ "github.com/amirasaad/bankapi/docs"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, nil, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Uses X-Forwarded-For when behind a proxy, then X-Real-IP, then the peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				"rate limit exceeded",
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bank API is running")
	})

	authweb.Routes(fiberApp, a.AuthService, a.UserService)
	accountweb.Routes(fiberApp, a.AccountService, a.ReportService, a.AuthService, a.Config)
	transactionweb.Routes(fiberApp, a.LedgerService, a.AccountService, a.AuthService, a.Config)
	userweb.Routes(fiberApp, a.UserService, a.AccountService, a.ReportService, a.Config)
	alertweb.Routes(fiberApp, a.AlertService, a.AuthService, a.Config)
	return fiberApp
}
