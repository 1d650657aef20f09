package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-mentorship/console-api/internal/config"
	"github.com/brightpath-mentorship/console-api/internal/handler"
	"github.com/brightpath-mentorship/console-api/internal/middleware"
	"github.com/brightpath-mentorship/console-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ChallengeHandler  *handler.ChallengeHandler
	TaskHandler       *handler.TaskHandler
	SubmissionHandler *handler.SubmissionHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	BadgeHandler      *handler.BadgeHandler
	RaffleHandler     *handler.RaffleHandler
	JWTMiddleware     fiber.Handler
	StaffGuard        fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Staff-only
// surfaces sit behind both the JWT middleware and the role guard; intake and
// read surfaces only require authentication.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	staffGuard := deps.StaffGuard
	if staffGuard == nil {
		staffGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ChallengeHandler != nil {
		challenges := api.Group("/challenges", jwtMiddleware)
		deps.ChallengeHandler.RegisterPublic(challenges)

		staffChallenges := challenges.Group("", staffGuard)
		deps.ChallengeHandler.RegisterStaff(staffChallenges)
		if deps.AnalyticsHandler != nil {
			deps.AnalyticsHandler.RegisterChallengeStats(staffChallenges)
		}
	}

	if deps.TaskHandler != nil {
		tasks := api.Group("/tasks", jwtMiddleware, staffGuard)
		deps.TaskHandler.Register(tasks)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.RegisterPublic(submissions.Group("", middleware.RateLimit("submissions", 30, time.Minute)))
		deps.SubmissionHandler.RegisterStaff(submissions.Group("", staffGuard))
	}

	if deps.AnalyticsHandler != nil {
		analytics := api.Group("/analytics", jwtMiddleware, staffGuard)
		deps.AnalyticsHandler.RegisterOverview(analytics)
	}

	if deps.BadgeHandler != nil {
		badges := api.Group("/badges", jwtMiddleware)
		deps.BadgeHandler.Register(badges)
	}

	if deps.RaffleHandler != nil {
		raffle := api.Group("/raffle", jwtMiddleware, staffGuard)
		deps.RaffleHandler.Register(raffle)
	}
}
