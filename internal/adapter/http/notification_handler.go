package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"separation-engine/internal/domain/notification"
)

// Inbox lists the notifications delivered to one account.
type Inbox interface {
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error)
}

type NotificationHandler struct {
	inbox Inbox
	log   *zap.Logger
}

func NewNotificationHandler(inbox Inbox, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{inbox: inbox, log: logger}
}

type inboxQuery struct {
	Limit int `validate:"gte=0,lte=200"`
}

// List handles GET /notifications for the calling account, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	var q inboxQuery
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Kind:    "invalid_input",
			Details: []FieldError{{Field: "Limit", Message: "must be an integer"}},
		})
	}
	if err := c.Validate(&q); err != nil {
		return invalid(c, err)
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	items, err := h.inbox.ListByRecipient(c.Request().Context(), who.ID, q.Limit)
	if err != nil {
		h.log.Error("failed to list notifications", zap.String("recipient_id", who.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: "persistence_failure"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "count": len(items)})
}
