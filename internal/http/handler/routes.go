package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"ticketapi/internal/http/middleware"
	"ticketapi/internal/service"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Events  service.EventService
	Orders  service.OrderService
	Links   service.LinkService
	Refunds service.RefundService
	Auth    service.AuthService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/events", ListEvents(svc.Events))
	api.Get("/events/:id", GetEvent(svc.Events))
	api.Get("/links/:token", ResolveLink(svc.Links))
	api.Post("/orders", CreateOrder(svc.Orders))
	api.Get("/orders/:code", GetOrder(svc.Orders))
	api.Post("/orders/:code/slip", UploadSlip(svc.Orders))
	api.Post("/orders/:code/cancel", CancelOrder(svc.Orders))
	api.Get("/refunds/:token", GetRefund(svc.Refunds))
	api.Post("/refunds/:token", SubmitRefund(svc.Refunds))

	// Registered before the admin group so the auth middleware never sees it.
	app.Post("/admin/login", Login(svc.Auth))

	admin := app.Group("/admin", middleware.AdminAuth(svc.Auth))
	admin.Get("/events", AdminListEvents(svc.Events))
	admin.Post("/events", CreateEvent(svc.Events))
	admin.Put("/events/:id", UpdateEvent(svc.Events))
	admin.Post("/events/:id/close", CloseEvent(svc.Events))

	admin.Get("/orders", AdminListOrders(svc.Orders))
	admin.Get("/orders/:code", AdminGetOrder(svc.Orders))
	admin.Get("/orders/:code/slip", AdminGetSlip(svc.Orders))
	admin.Post("/orders/:code/confirm", ConfirmOrder(svc.Orders))
	admin.Post("/orders/:code/reject", RejectOrder(svc.Orders))
	admin.Post("/orders/:code/cancel", AdminCancelOrder(svc.Orders))

	admin.Post("/links", GenerateLink(svc.Links))
	admin.Get("/links", ListLinks(svc.Links))
	admin.Delete("/links/:token", RevokeLink(svc.Links))

	admin.Post("/refunds/:token/complete", CompleteRefund(svc.Refunds))
}
