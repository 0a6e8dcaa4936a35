package server

import (
	"time"

	"github.com/gin-gonic/gin"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
)

func (s *Server) GetYieldSettings(c *gin.Context) {
	hotelID, ok := parseID(c, "hotel_id")
	if !ok {
		return
	}

	settings, err := s.hotelSvc.Settings(c.Request.Context(), hotelID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, settings)
}

func (s *Server) UpdateYieldSettings(c *gin.Context) {
	hotelID, ok := parseID(c, "hotel_id")
	if !ok {
		return
	}

	var settings hoteldomain.YieldSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}
	settings.HotelID = hotelID

	if err := s.hotelSvc.UpdateSettings(c.Request.Context(), &settings); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, settings)
}

// sinceOrDefault reads the optional ?since=YYYY-MM-DD query parameter,
// defaulting to the trailing 30 days.
func sinceOrDefault(c *gin.Context) (time.Time, bool) {
	raw := c.Query("since")
	if raw == "" {
		return time.Now().UTC().AddDate(0, 0, -30), true
	}
	since, err := time.Parse("2006-01-02", raw)
	if err != nil {
		abortBadRequest(c, "since must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return since, true
}

func (s *Server) ListSummaries(c *gin.Context) {
	hotelID, ok := parseID(c, "hotel_id")
	if !ok {
		return
	}
	since, ok := sinceOrDefault(c)
	if !ok {
		return
	}

	summaries, err := s.history.ListSummaries(c.Request.Context(), hotelID, since)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summaries)
}

func (s *Server) ListRecommendations(c *gin.Context) {
	hotelID, ok := parseID(c, "hotel_id")
	if !ok {
		return
	}
	since, ok := sinceOrDefault(c)
	if !ok {
		return
	}

	recs, err := s.history.ListRecommendations(c.Request.Context(), hotelID, since)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, recs)
}
