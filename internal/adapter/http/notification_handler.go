package http

import (
	"context"
	"net/http"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/notification"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Inbox interface {
	NotificationsFor(ctx context.Context, userID string, role application.Role) ([]*notification.Notification, error)
	UnreadCount(ctx context.Context, userID string, role application.Role) (int64, error)
	MarkNotificationRead(ctx context.Context, notificationID uint64) error
}

type NotificationHandler struct {
	inbox Inbox
	log   *zap.Logger
}

func NewNotificationHandler(inbox Inbox, log *zap.Logger) *NotificationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationHandler{inbox: inbox, log: log}
}

type inboxQuery struct {
	UserID string `query:"user_id" validate:"omitempty,userid"`
	Role   string `query:"role"    validate:"omitempty,oneof=customer maker checker"`
}

// viewer resolves who is asking: user_id query or Ax-User-Id header, plus an
// optional role. At least one of them must be present.
func (h *NotificationHandler) viewer(c echo.Context) (string, application.Role, *ErrorResponse) {
	var q inboxQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return "", "", &ErrorResponse{Error: "invalid query"}
	}
	if err := c.Validate(&q); err != nil {
		return "", "", &ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)}
	}
	userID := actorID(c, q.UserID)
	if userID == "" && q.Role == "" {
		return "", "", &ErrorResponse{Error: "user_id or role is required"}
	}
	return userID, application.Role(q.Role), nil
}

func (h *NotificationHandler) List(c echo.Context) error {
	userID, role, bad := h.viewer(c)
	if bad != nil {
		return c.JSON(http.StatusBadRequest, bad)
	}
	items, err := h.inbox.NotificationsFor(c.Request().Context(), userID, role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, role, bad := h.viewer(c)
	if bad != nil {
		return c.JSON(http.StatusBadRequest, bad)
	}
	n, err := h.inbox.UnreadCount(c.Request().Context(), userID, role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": n})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, ok := parseNotificationID(c.Param("notification_id"))
	if !ok {
		return badRequest(c, "invalid notification_id path param")
	}
	if err := h.inbox.MarkNotificationRead(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "read": true})
}
