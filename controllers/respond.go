package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/services"
	"github.com/tallesnicacio/a-pay-sub001/utils"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondError maps service errors onto the HTTP error envelope.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *services.NotFoundError
		validation *services.ValidationError
		forbidden  *services.ForbiddenError
		conflict   *services.ConflictError
		upload     *utils.FileUploadError
	)
	switch {
	case errors.As(err, &notFound):
		respondErrorCode(c, http.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &validation):
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error())
	case errors.As(err, &forbidden):
		respondErrorCode(c, http.StatusForbidden, "FORBIDDEN", forbidden.Error())
	case errors.As(err, &conflict):
		respondErrorCode(c, http.StatusConflict, "CONFLICT", conflict.Error())
	case errors.As(err, &upload):
		respondErrorCode(c, http.StatusBadRequest, upload.Code, upload.Message)
	default:
		respondErrorCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}
