package handler

import (
	"bedflow/internal/realtime"

	"github.com/gin-gonic/gin"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Connect upgrades the request to a websocket that receives every bed and queue event
func (h *RealtimeHandler) Connect(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
