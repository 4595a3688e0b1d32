package events

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/middleware"
)

// Handler upgrades authenticated requests to WebSocket connections that
// receive record lifecycle events for the calling device.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes mounts the events endpoint on a group that already runs
// the device identity middleware.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws/records", h.HandleWebSocket)
}

// HandleWebSocket godoc
// @Summary Subscribe to record events
// @Description Pushes record_created/record_deleted events for this device.
// @Tags Events
// @Router /ws/records [get]
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("ws_upgrade_failed owner_id=%s error=%q", ownerID, err)
		return
	}

	h.hub.ServeWS(conn, ownerID)
}
