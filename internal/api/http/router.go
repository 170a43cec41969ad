package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/http/handlers"
	"github.com/pedro17pedroo/tts-sub001/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Sla            *handlers.SlaHandler
	HourBanks      *handlers.HourBanksHandler
	TimeEntries    *handlers.TimeEntriesHandler
	Tickets        *handlers.TicketsHandler
	Customers      *handlers.CustomersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Config management is admin-only;
// alert handling and time tracking need at least agent; tickets are open
// to any authenticated user of the tenant.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	slaConfigs := api.Group("/sla/configs", auth.RequireAdmin())
	slaConfigs.Post("/", cfg.Sla.CreateConfig)
	slaConfigs.Get("/", cfg.Sla.ListConfigs)
	slaConfigs.Get("/:id", cfg.Sla.GetConfig)
	slaConfigs.Patch("/:id", cfg.Sla.UpdateConfig)
	slaConfigs.Delete("/:id", cfg.Sla.DeactivateConfig)

	slaAlerts := api.Group("/sla/alerts", auth.RequireAgent())
	slaAlerts.Get("/", cfg.Sla.ListAlerts)
	slaAlerts.Post("/:id/resolve", cfg.Sla.ResolveAlert)

	api.Get("/sla/reports", auth.RequireAgent(), cfg.Sla.Report)

	hourBanks := api.Group("/hour-banks", auth.RequireAgent())
	hourBanks.Post("/", cfg.HourBanks.CreateBank)
	hourBanks.Get("/", cfg.HourBanks.ListBanks)
	hourBanks.Get("/:id", cfg.HourBanks.GetBank)

	timeEntries := api.Group("/time-entries", auth.RequireAgent())
	timeEntries.Post("/", cfg.TimeEntries.CreateEntry)
	timeEntries.Patch("/:id", cfg.TimeEntries.StopEntry)

	tickets := api.Group("/tickets", auth.RequireRole())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/respond", auth.RequireAgent(), cfg.Tickets.RespondTicket)
	tickets.Post("/:id/resolve", auth.RequireAgent(), cfg.Tickets.ResolveTicket)
	tickets.Get("/:id/time-entries", auth.RequireAgent(), cfg.TimeEntries.ListEntries)

	customers := api.Group("/customers", auth.RequireAgent())
	customers.Post("/", cfg.Customers.CreateCustomer)
	customers.Get("/", cfg.Customers.ListCustomers)
	customers.Get("/:id", cfg.Customers.GetCustomer)
	customers.Patch("/:id", cfg.Customers.UpdateCustomer)
}
