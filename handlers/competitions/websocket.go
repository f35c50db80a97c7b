package competitions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveFeed streams competition creation events over a WebSocket
// @Summary Live competition feed
// @Description WebSocket receiving {"type":"competition.created","competition":{...}} events
// @Tags Competitions
// @Router /live/competitions [get]
func (h *Handler) LiveFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger().Debug("websocket upgrade error", zap.Error(err))
		return
	}

	h.Hub.Register(conn)
	defer func() {
		h.Hub.Unregister(conn)
		conn.Close()
	}()

	// The feed is one-way; reading only detects the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
