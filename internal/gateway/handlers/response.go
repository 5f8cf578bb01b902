package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/apperr"
)

const requestTimeout = 10 * time.Second

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// handleError maps a service error onto a status code and envelope. Details
// of unexpected errors are logged and never sent to the client.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var message string
	var fields map[string]string
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		fields = appErr.Fields
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		if len(fields) > 0 {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: message,
				Meta:    gin.H{"errors": fields},
			})
		} else {
			c.JSON(http.StatusBadRequest, errorResponse(message))
		}
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, errorResponse(message))
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, errorResponse(message))
	case apperr.KindAuthentication:
		c.JSON(http.StatusUnauthorized, errorResponse(message))
	case apperr.KindAuthorization:
		c.JSON(http.StatusForbidden, errorResponse(message))
	default:
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorResponse("An unexpected error occurred"))
	}
	c.Abort()
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func parseUUIDParam(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Meta:    gin.H{"detail": err.Error()},
		})
		return false
	}
	return true
}

func countMeta(n int) gin.H {
	return gin.H{"count": n}
}
