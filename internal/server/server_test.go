package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type calcStub struct {
	quote *pricingdomain.Quote
	err   error
}

func (s *calcStub) Price(context.Context, snowflake.ID, snowflake.ID, time.Time, int) (*pricingdomain.Quote, error) {
	return s.quote, s.err
}

func (s *calcStub) Preview(context.Context, snowflake.ID, snowflake.ID, time.Time, int) (*pricingdomain.Quote, error) {
	return s.quote, s.err
}

func (s *calcStub) PriceHotel(context.Context, snowflake.ID, time.Time) ([]pricingdomain.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []pricingdomain.Quote{*s.quote}, nil
}

type ruleSvcStub struct {
	rules   []ruledomain.Rule
	created *ruledomain.Rule
	err     error
}

func (s *ruleSvcStub) Create(_ context.Context, rule *ruledomain.Rule) error {
	if s.err != nil {
		return s.err
	}
	s.created = rule
	return nil
}

func (s *ruleSvcStub) Update(context.Context, *ruledomain.Rule) error { return s.err }

func (s *ruleSvcStub) Get(context.Context, snowflake.ID) (*ruledomain.Rule, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.rules) == 0 {
		return nil, ruledomain.ErrRuleNotFound
	}
	return &s.rules[0], nil
}

func (s *ruleSvcStub) List(context.Context) ([]ruledomain.Rule, error) { return s.rules, s.err }

func (s *ruleSvcStub) ActiveForHotel(context.Context, snowflake.ID, time.Time) ([]ruledomain.Rule, error) {
	return s.rules, s.err
}

func newTestServer(calc *calcStub, rules *ruleSvcStub) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		log:     zap.NewNop(),
		engine:  gin.New(),
		calc:    calc,
		ruleSvc: rules,
	}
	s.engine.GET("/api/hotels/:hotel_id/rooms/:room_type_id/quote", s.GetQuote)
	s.engine.GET("/api/rules/:id", s.GetRule)
	s.engine.POST("/api/rules", s.CreateRule)
	return s
}

func TestGetQuote(t *testing.T) {
	quote := &pricingdomain.Quote{
		HotelID:     1,
		RoomTypeID:  2,
		BasePrice:   100,
		FinalPrice:  115.75,
		Multiplier:  1.1575,
		DemandLevel: pricingdomain.DemandHigh,
	}
	s := newTestServer(&calcStub{quote: quote}, &ruleSvcStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/hotels/1/rooms/2/quote?date=2026-09-12&nights=3", nil)
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data pricingdomain.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 115.75, body.Data.FinalPrice)
	assert.Equal(t, pricingdomain.DemandHigh, body.Data.DemandLevel)
}

func TestGetQuoteRejectsBadDate(t *testing.T) {
	s := newTestServer(&calcStub{}, &ruleSvcStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/hotels/1/rooms/2/quote?date=tomorrow", nil)
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetQuoteMapsRoomNotFound(t *testing.T) {
	s := newTestServer(&calcStub{err: hoteldomain.ErrRoomTypeNotFound}, &ruleSvcStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/hotels/1/rooms/9/quote?date=2026-09-12", nil)
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRule(t *testing.T) {
	rules := &ruleSvcStub{}
	s := newTestServer(&calcStub{}, rules)

	payload := `{
		"name": "summer surge",
		"kind": "seasonal",
		"adjustment": "percentage",
		"adjustment_value": 15,
		"valid_from": "2026-06-01T00:00:00Z",
		"valid_until": "2026-09-01T00:00:00Z",
		"config": {"seasons": [{"start": "2026-06-01T00:00:00Z", "end": "2026-09-01T00:00:00Z", "multiplier": 1.15}]}
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rules", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, rules.created)
	assert.Equal(t, "summer surge", rules.created.Name)
	assert.Equal(t, ruledomain.KindSeasonal, rules.created.Kind)
	assert.True(t, rules.created.Active)
}

func TestCreateRuleMapsValidationError(t *testing.T) {
	s := newTestServer(&calcStub{}, &ruleSvcStub{err: ruledomain.ErrInvalidRule})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rules", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRuleNotFound(t *testing.T) {
	s := newTestServer(&calcStub{}, &ruleSvcStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rules/42", nil)
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
