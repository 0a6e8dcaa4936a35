package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
)

type ruleRequest struct {
	Name            string                    `json:"name"`
	Description     string                    `json:"description"`
	Kind            ruledomain.RuleKind       `json:"kind"`
	HotelID         *string                   `json:"hotel_id"`
	RoomTypeIDs     []string                  `json:"room_type_ids"`
	Priority        int                       `json:"priority"`
	Active          *bool                     `json:"active"`
	ValidFrom       time.Time                 `json:"valid_from"`
	ValidUntil      time.Time                 `json:"valid_until"`
	Adjustment      ruledomain.AdjustmentType `json:"adjustment"`
	AdjustmentValue float64                   `json:"adjustment_value"`
	MinPrice        *float64                  `json:"min_price"`
	MaxPrice        *float64                  `json:"max_price"`
	Config          ruledomain.Config         `json:"config"`
}

func (r ruleRequest) toRule() (*ruledomain.Rule, error) {
	rule := &ruledomain.Rule{
		Name:            r.Name,
		Description:     r.Description,
		Kind:            r.Kind,
		Priority:        r.Priority,
		Active:          true,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
		Adjustment:      r.Adjustment,
		AdjustmentValue: r.AdjustmentValue,
		MinPrice:        r.MinPrice,
		MaxPrice:        r.MaxPrice,
		Config:          r.Config,
	}
	if r.Active != nil {
		rule.Active = *r.Active
	}
	if r.HotelID != nil {
		id, err := snowflake.ParseString(*r.HotelID)
		if err != nil {
			return nil, err
		}
		rule.HotelID = &id
	}
	for _, raw := range r.RoomTypeIDs {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, err
		}
		rule.RoomTypeIDs = append(rule.RoomTypeIDs, id)
	}
	return rule, nil
}

func (s *Server) CreateRule(c *gin.Context) {
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	rule, err := req.toRule()
	if err != nil {
		abortBadRequest(c, "invalid id in request")
		return
	}

	if err := s.ruleSvc.Create(c.Request.Context(), rule); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

func (s *Server) ListRules(c *gin.Context) {
	rules, err := s.ruleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rules)
}

func (s *Server) GetRule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rule, err := s.ruleSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

func (s *Server) UpdateRule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	rule, err := req.toRule()
	if err != nil {
		abortBadRequest(c, "invalid id in request")
		return
	}
	rule.ID = id

	if err := s.ruleSvc.Update(c.Request.Context(), rule); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}
