package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/edulink-id/tutor-api/internal/service"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
	"github.com/edulink-id/tutor-api/pkg/response"
)

// NotificationHandler streams hub events to connected users over SSE.
type NotificationHandler struct {
	hub *service.Hub
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(hub *service.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// Stream godoc
// @Summary Notification stream
// @Description Server-sent event stream of the caller's notifications
// @Tags Notifications
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {object} response.Envelope
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	events := h.hub.Register(claims.UserID, 8)
	defer h.hub.Unregister(claims.UserID, events)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event.Payload)
			return true
		}
	})
}
