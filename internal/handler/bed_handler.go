package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bedflow/internal/models"
	"bedflow/internal/service"
	"bedflow/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BedHandler struct {
	bedService    *service.BedService
	censusService *service.CensusService
}

func NewBedHandler(bedService *service.BedService, censusService *service.CensusService) *BedHandler {
	return &BedHandler{
		bedService:    bedService,
		censusService: censusService,
	}
}

type createBedRequest struct {
	Ward                string   `json:"ward" binding:"required"`
	DistanceFromStation *float64 `json:"distanceFromStation" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListBeds returns beds, optionally filtered by status and ward
func (h *BedHandler) ListBeds(c *gin.Context) {
	var filter models.BedFilter

	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseBedStatus(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid status filter: "+raw)
			return
		}
		filter.Status = status
	}
	if raw := c.Query("ward"); raw != "" {
		ward, ok := models.ParseWard(raw)
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ward filter: "+raw)
			return
		}
		filter.Ward = ward
	}

	beds := h.bedService.ListBeds(filter)
	utils.SuccessResponse(c, gin.H{
		"beds":  beds,
		"count": len(beds),
	})
}

// GetBed retrieves a bed by ID
func (h *BedHandler) GetBed(c *gin.Context) {
	id, ok := parseBedID(c)
	if !ok {
		return
	}

	bed, err := h.bedService.GetBed(id)
	if err != nil {
		utils.HandleError(c, err, "Failed to fetch bed")
		return
	}

	utils.SuccessResponse(c, bed)
}

// CreateBed adds a bed to a ward
func (h *BedHandler) CreateBed(c *gin.Context) {
	var req createBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ward, ok := models.ParseWard(req.Ward)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ward: "+req.Ward)
		return
	}

	bed, err := h.bedService.AddBed(ward, *req.DistanceFromStation)
	if err != nil {
		utils.HandleError(c, err, "Failed to create bed")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Bed created successfully",
		"bed":     bed,
	})
}

// DeleteBed removes an unoccupied bed
func (h *BedHandler) DeleteBed(c *gin.Context) {
	id, ok := parseBedID(c)
	if !ok {
		return
	}

	if err := h.bedService.RemoveBed(id); err != nil {
		utils.HandleError(c, err, "Failed to remove bed")
		return
	}

	utils.MessageResponse(c, "Bed removed successfully")
}

// UpdateStatus changes the status of an unoccupied bed
func (h *BedHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseBedID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	status, ok := models.ParseBedStatus(req.Status)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid status: "+req.Status)
		return
	}

	bed, err := h.bedService.SetStatus(id, status)
	if err != nil {
		utils.HandleError(c, err, "Failed to update bed status")
		return
	}

	utils.SuccessResponse(c, bed)
}

// GetStats returns the bed census
func (h *BedHandler) GetStats(c *gin.Context) {
	utils.SuccessResponse(c, h.censusService.Census())
}

// ExportCensus downloads the census as an Excel workbook
func (h *BedHandler) ExportCensus(c *gin.Context) {
	data, err := h.censusService.ExportXLSX()
	if err != nil {
		utils.HandleError(c, err, "Failed to export census")
		return
	}

	filename := fmt.Sprintf("bed-census-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseBedID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bed ID")
		return 0, false
	}
	return uint(id), true
}
