package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/yieldway/internal/scheduler"
)

func (s *Server) GetSchedulerStatus(c *gin.Context) {
	respondData(c, gin.H{
		"paused": s.sched.Paused(),
		"active": s.sched.ActiveJobs(),
		"jobs":   s.sched.Status(),
	})
}

func (s *Server) PauseScheduler(c *gin.Context) {
	s.sched.PauseAll()
	respondData(c, gin.H{"paused": true})
}

func (s *Server) ResumeScheduler(c *gin.Context) {
	s.sched.ResumeAll()
	respondData(c, gin.H{"paused": false})
}

func (s *Server) RestartScheduler(c *gin.Context) {
	s.sched.RestartAll(c.Request.Context())
	respondData(c, gin.H{"restarted": true})
}

// TriggerJob runs one job synchronously. Long jobs belong on their schedule;
// the manual trigger exists for operators who need a run now.
func (s *Server) TriggerJob(c *gin.Context) {
	jobType := scheduler.JobType(c.Param("type"))
	if err := s.sched.Trigger(c.Request.Context(), jobType); err != nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	respondData(c, gin.H{"triggered": string(jobType)})
}
