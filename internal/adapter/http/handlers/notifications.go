package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"workops/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Authentication happens before the upgrade via the bearer token, so
	// origin checks add nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NotificationsHandler struct {
	hub *notify.Hub
}

func NewNotificationsHandler(hub *notify.Hub) *NotificationsHandler {
	return &NotificationsHandler{hub: hub}
}

// Subscribe upgrades the request to a websocket and serves status events
// until the peer disconnects.
func (h *NotificationsHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.HandleConnection(conn)
}
