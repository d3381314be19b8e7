package handler

import (
	"errors"
	"net/http"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	"github.com/enigmAsad/ticketing-service/pkg/middleware"
	"github.com/enigmAsad/ticketing-service/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleError converts domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, response.ValidationError(err.Error()))
	case domain.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, response.NotFound(err.Error()))
	case domain.IsConflictError(err):
		c.JSON(http.StatusConflict, response.Conflict(err.Error()))
	default:
		logger.Get().Error("Request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
	}
}

// handleBindError answers a request whose body or query could not be decoded
func handleBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, response.Error(response.CodePayloadTooLarge, "Request body too large"))
		return
	}
	c.JSON(http.StatusBadRequest, response.ErrorWithDetails(response.CodeBadRequest, "Invalid request", err.Error()))
}
