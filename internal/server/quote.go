package server

import (
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		abortBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// GetQuote prices one (room type, date) pair. The booking surface always
// receives a price; cache misses and stale entries trigger recomputation
// transparently.
func (s *Server) GetQuote(c *gin.Context) {
	hotelID, ok := parseID(c, "hotel_id")
	if !ok {
		return
	}
	roomTypeID, ok := parseID(c, "room_type_id")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		abortBadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	nights := 0
	if raw := c.Query("nights"); raw != "" {
		if nights, err = strconv.Atoi(raw); err != nil || nights < 0 {
			abortBadRequest(c, "nights must be a non-negative integer")
			return
		}
	}

	quote, err := s.calc.Price(c.Request.Context(), hotelID, roomTypeID, date, nights)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, quote)
}

// ListQuotes prices every active room type of the hotel for one date.
func (s *Server) ListQuotes(c *gin.Context) {
	hotelID, ok := parseID(c, "hotel_id")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		abortBadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	quotes, err := s.calc.PriceHotel(c.Request.Context(), hotelID, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, quotes)
}
