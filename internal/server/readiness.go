package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type componentState struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// GetReadiness checks the backing stores the engine cannot run without. The
// quote cache is reported but never blocks readiness; losing it only costs
// recomputation.
func (s *Server) GetReadiness(c *gin.Context) {
	ctx := c.Request.Context()
	ready := true
	components := map[string]componentState{}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		ready = false
		components["database"] = componentState{Status: "down", Error: err.Error()}
	} else {
		components["database"] = componentState{Status: "up"}
	}

	if err := s.redis.Ping(ctx).Err(); err != nil {
		components["cache"] = componentState{Status: "down", Error: err.Error()}
	} else {
		components["cache"] = componentState{Status: "up"}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	c.JSON(status, gin.H{"state": state, "components": components})
}
