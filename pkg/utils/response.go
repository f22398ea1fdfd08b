package utils

import (
	"errors"
	"net/http"

	"bedflow/internal/repository"
	"bedflow/internal/service"

	"github.com/gin-gonic/gin"
)

// SuccessResponse sends a standard success JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreatedResponse sends a success JSON response with 201 Created
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// ErrorResponse sends a standard error JSON response
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// MessageResponse sends a simple message response
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// StatusFor maps a service error to its HTTP status.
// Not-found is checked first so a missing transfer bed reports 404.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBedNotFound),
		errors.Is(err, service.ErrPatientNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidWard),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidPatient):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBedOccupied),
		errors.Is(err, service.ErrNoBedAvailable),
		errors.Is(err, service.ErrSourceBedNotOccupied),
		errors.Is(err, service.ErrTargetBedNotAvailable),
		errors.Is(err, service.ErrInvalidTransfer),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, repository.ErrDuplicatePatient):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err with the status StatusFor picks. Unknown errors are
// not echoed to the client.
func HandleError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		ErrorResponse(c, status, fallback)
		return
	}
	ErrorResponse(c, status, err.Error())
}
