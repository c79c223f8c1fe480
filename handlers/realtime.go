package handlers

import (
	"log"
	"net/http"
	"os"

	"barbearia-backend/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RealtimeHandler upgrades clients onto the appointment change feed.
type RealtimeHandler struct {
	Hub *realtime.Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")} {
			if allowed != "" && origin == allowed {
				return true
			}
		}
		return origin == "http://localhost:5173" || origin == "http://localhost:5174"
	},
}

func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.Hub.Serve(conn)
}
