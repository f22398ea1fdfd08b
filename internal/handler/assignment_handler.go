package handler

import (
	"net/http"

	"bedflow/internal/models"
	"bedflow/internal/service"
	"bedflow/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

// assignRequest picks manual assignment when BedID is set, smart assignment otherwise.
// Needs is the requested ward; empty means any ward.
type assignRequest struct {
	Needs     string              `json:"needs"`
	PatientID string              `json:"patientId"`
	Patient   *models.PatientData `json:"patient"`
	BedID     *uint               `json:"bedId"`
}

type transferRequest struct {
	SourceBedID uint `json:"sourceBedId" binding:"required"`
	TargetBedID uint `json:"targetBedId" binding:"required"`
}

// Assign places a patient in a bed
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ref := service.PatientRef{PatientID: req.PatientID, Patient: req.Patient}

	var (
		bed *models.Bed
		err error
	)
	if req.BedID != nil {
		bed, err = h.assignmentService.ManualAssign(*req.BedID, ref)
	} else {
		var ward models.Ward
		if req.Needs != "" {
			parsed, ok := models.ParseWard(req.Needs)
			if !ok {
				utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ward: "+req.Needs)
				return
			}
			ward = parsed
		}
		bed, err = h.assignmentService.SmartAssign(ward, ref)
	}
	if err != nil {
		utils.HandleError(c, err, "Failed to assign bed")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Patient assigned to " + bed.Label(),
		"bed":     bed,
	})
}

// Transfer moves a patient between beds
func (h *AssignmentHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	source, target, err := h.assignmentService.Transfer(req.SourceBedID, req.TargetBedID)
	if err != nil {
		utils.HandleError(c, err, "Failed to transfer patient")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"source": source,
		"target": target,
	})
}

// Discharge frees an occupied bed
func (h *AssignmentHandler) Discharge(c *gin.Context) {
	id, ok := parseBedID(c)
	if !ok {
		return
	}

	bed, err := h.assignmentService.Discharge(id)
	if err != nil {
		utils.HandleError(c, err, "Failed to discharge patient")
		return
	}

	utils.SuccessResponse(c, bed)
}
