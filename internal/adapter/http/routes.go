package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the workflow API. mutating wraps every POST route
// (idempotency in production); reads stay unwrapped.
func RegisterRoutes(e *echo.Echo, h *Handler, apps *ApplicationHandler, inbox *NotificationHandler, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("/applications")
	g.GET("", apps.List)
	g.GET("/:application_id", apps.Get)
	g.POST("", apps.Create, mutating...)
	g.POST("/:application_id/maker/claim", apps.MakerClaim, mutating...)
	g.POST("/:application_id/maker/approve", apps.MakerApprove, mutating...)
	g.POST("/:application_id/maker/reject", apps.MakerReject, mutating...)
	g.POST("/:application_id/checker/claim", apps.CheckerClaim, mutating...)
	g.POST("/:application_id/checker/approve", apps.CheckerApprove, mutating...)
	g.POST("/:application_id/checker/reject", apps.CheckerReject, mutating...)

	n := e.Group("/notifications")
	n.GET("", inbox.List)
	n.GET("/unread-count", inbox.UnreadCount)
	n.POST("/:notification_id/read", inbox.MarkRead, mutating...)
}
