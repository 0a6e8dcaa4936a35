package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// AbortWithError maps domain errors to HTTP statuses. Unknown errors are
// opaque 500s; their detail stays in the logs.
func AbortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hoteldomain.ErrHotelNotFound),
		errors.Is(err, hoteldomain.ErrRoomTypeNotFound),
		errors.Is(err, ruledomain.ErrRuleNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, hoteldomain.ErrInvalidSettings),
		errors.Is(err, ruledomain.ErrInvalidRule):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func abortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
