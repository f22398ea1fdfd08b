package handler

import (
	"net/http"
	"time"

	"bedflow/internal/models"
	"bedflow/internal/service"
	"bedflow/pkg/utils"

	"github.com/gin-gonic/gin"
)

type QueueHandler struct {
	queueService *service.QueueService
	now          func() time.Time
}

func NewQueueHandler(queueService *service.QueueService) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
		now:          time.Now,
	}
}

// GetQueue returns the ranked waiting queue
func (h *QueueHandler) GetQueue(c *gin.Context) {
	queue := h.queueService.Snapshot(h.now())
	utils.SuccessResponse(c, gin.H{
		"queue": queue,
		"count": len(queue),
	})
}

// AddPatient admits a patient to the waiting queue
func (h *QueueHandler) AddPatient(c *gin.Context) {
	var data models.PatientData
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	patient, err := h.queueService.Enqueue(data)
	if err != nil {
		utils.HandleError(c, err, "Failed to add patient")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Patient added to queue",
		"patient": patient,
	})
}

// RemovePatient takes a waiting patient out of the queue
func (h *QueueHandler) RemovePatient(c *gin.Context) {
	if err := h.queueService.Dequeue(c.Param("id")); err != nil {
		utils.HandleError(c, err, "Failed to remove patient")
		return
	}

	utils.MessageResponse(c, "Patient removed from queue")
}

// Directory searches waiting and admitted patients
func (h *QueueHandler) Directory(c *gin.Context) {
	var status models.PatientLocation
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParsePatientLocation(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid status filter: "+raw)
			return
		}
		status = parsed
	}

	patients := h.queueService.Directory(c.Query("q"), status)
	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}
