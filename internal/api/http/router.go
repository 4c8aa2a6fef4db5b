package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-stack/grievance-service/internal/api/http/handlers"
	"github.com/campus-stack/grievance-service/internal/auth"
	"github.com/campus-stack/grievance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AdminUsers     *handlers.AdminUsersHandler
	Tickets        *handlers.TicketsHandler
	Assignments    *handlers.AssignmentsHandler
	Notifications  *handlers.NotificationsHandler
	Activity       *handlers.ActivityHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/me", cfg.Users.Me)
	protected.Patch("/me", cfg.Users.UpdateMe)
	protected.Post("/me/password", cfg.Users.ChangePassword)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)

	tickets.Patch("/:id/priority",
		auth.RequireRole(domain.RoleResolver, domain.RoleAdmin), cfg.Tickets.UpdatePriority)
	tickets.Post("/:id/claim",
		auth.RequireRole(domain.RoleResolver), cfg.Assignments.ClaimTicket)
	tickets.Post("/:id/auto-assign",
		auth.RequireRole(domain.RoleResolver, domain.RoleAdmin), cfg.Assignments.AutoAssignTicket)
	tickets.Post("/:id/reassign",
		auth.RequireRole(domain.RoleAdmin), cfg.Assignments.ReassignTicket)
	tickets.Delete("/:id",
		auth.RequireRole(domain.RoleAdmin), cfg.Tickets.DeleteTicket)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.ListNotifications)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.DeleteNotification)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.AdminUsers.ListUsers)
	admin.Patch("/users/:id", cfg.AdminUsers.UpdateUser)
	admin.Delete("/users/:id", cfg.AdminUsers.DeleteUser)
	admin.Get("/activity", cfg.Activity.ListActivity)
	admin.Get("/metrics", cfg.Metrics.Snapshot)
}
