// Package webapi provides the HTTP API of Fein.
// It is organized into sub-packages per domain:
// - auth: registration and login
// - account: accounts, including the admin listing
// - transaction: transactions and breakdowns
// - tag: tags and tag assignments
// - report: spending reports
package webapi

import (
	"errors"
	"strings"

	"github.com/feinledger/fein/pkg/app"
	accountweb "github.com/feinledger/fein/webapi/account"
	authweb "github.com/feinledger/fein/webapi/auth"
	"github.com/feinledger/fein/webapi/common"
	reportweb "github.com/feinledger/fein/webapi/report"
	tagweb "github.com/feinledger/fein/webapi/tag"
	txweb "github.com/feinledger/fein/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:      "Fein API",
		ErrorHandler: common.ErrorHandler(a.Deps.Logger),
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	if rl := a.Config.RateLimit; rl != nil && rl.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          rl.MaxRequests,
			Expiration:   rl.Window,
			KeyGenerator: clientIP,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					"Rate limit exceeded",
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Welcome to the Fein API", nil)
	})
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		if err := a.Healthy(c.UserContext()); err != nil {
			a.Deps.Logger.Error("health check failed", "error", err)
			return common.ProblemDetailsJSON(c, "Service Unavailable", err,
				"database unreachable", fiber.StatusServiceUnavailable)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ok", nil)
	})

	authweb.Routes(fiberApp, a.AuthService)
	accountweb.Routes(fiberApp, a.AccountService, a.AuthService)
	txweb.Routes(fiberApp, a.TransactionService, a.AuthService)
	tagweb.Routes(fiberApp, a.TagService, a.AuthService)
	reportweb.Routes(fiberApp, a.ReportService, a.AuthService)
	return fiberApp
}

// clientIP keys the limiter on X-Forwarded-For when behind a proxy,
// then X-Real-IP, then the socket address.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
