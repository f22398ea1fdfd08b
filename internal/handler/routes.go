package handler

import (
	"bedflow/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the server mounts
type Handlers struct {
	Beds       *BedHandler
	Assignment *AssignmentHandler
	Queue      *QueueHandler
	Realtime   *RealtimeHandler
}

// RegisterRoutes mounts the API on r
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "bedflow",
		})
	})

	api := r.Group("/api")

	beds := api.Group("/beds")
	{
		beds.GET("", h.Beds.ListBeds)
		beds.POST("", h.Beds.CreateBed)
		beds.GET("/stats", h.Beds.GetStats)
		beds.GET("/export", h.Beds.ExportCensus)
		beds.POST("/assign", h.Assignment.Assign)
		beds.POST("/transfer", h.Assignment.Transfer)
		beds.GET("/:id", h.Beds.GetBed)
		beds.DELETE("/:id", h.Beds.DeleteBed)
		beds.PATCH("/:id/status", h.Beds.UpdateStatus)
		beds.POST("/:id/discharge", h.Assignment.Discharge)
	}

	queue := api.Group("/queue")
	{
		queue.GET("", h.Queue.GetQueue)
		queue.POST("", h.Queue.AddPatient)
		queue.POST("/add", h.Queue.AddPatient)
		queue.DELETE("/:id", h.Queue.RemovePatient)
	}

	api.GET("/patients/directory", h.Queue.Directory)

	if h.Realtime != nil {
		r.GET("/ws", h.Realtime.Connect)
	}
}
