package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	EscalationRules *handlers.EscalationRulesHandler
	Roles           *handlers.RolesHandler
	Tickets         *handlers.TicketsHandler
	Users           *handlers.UsersHandler
	Catalog         *handlers.CatalogHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	rules := app.Group("/escalation-rules")
	rules.Get("/", cfg.EscalationRules.ListRules)
	rules.Post("/", cfg.EscalationRules.CreateRule)
	rules.Get("/:id", cfg.EscalationRules.GetRule)
	rules.Put("/:id", cfg.EscalationRules.UpdateRule)
	rules.Delete("/:id", cfg.EscalationRules.DeleteRule)

	roles := app.Group("/roles")
	roles.Get("/", cfg.Roles.ListRoles)
	roles.Post("/", cfg.Roles.CreateRole)
	roles.Get("/:id", cfg.Roles.GetRole)
	roles.Put("/:id", cfg.Roles.UpdateRole)
	roles.Delete("/:id", cfg.Roles.DeleteRole)

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	users := app.Group("/users")
	users.Get("/", cfg.Users.ListUsers)
	users.Post("/", cfg.Users.CreateUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)

	topics := app.Group("/help-topics")
	topics.Get("/", cfg.Catalog.ListHelpTopics)
	topics.Post("/", cfg.Catalog.CreateHelpTopic)
	topics.Put("/:id", cfg.Catalog.UpdateHelpTopic)

	canned := app.Group("/canned-responses")
	canned.Get("/", cfg.Catalog.ListCannedResponses)
	canned.Post("/", cfg.Catalog.CreateCannedResponse)
	canned.Put("/:id", cfg.Catalog.UpdateCannedResponse)
	canned.Delete("/:id", cfg.Catalog.DeleteCannedResponse)
}
