package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now(context.Context) time.Time { return c.now }

type stubBookings struct {
	stays   []bookingdomain.Booking
	created map[string]int64 // weekStart date -> count
}

func (s *stubBookings) ListStays(_ context.Context, _ snowflake.ID, start, end time.Time) ([]bookingdomain.Booking, error) {
	var out []bookingdomain.Booking
	for _, b := range s.stays {
		if b.CheckIn.Before(end) && b.CheckOut.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookings) CountCreatedBetween(_ context.Context, _ snowflake.ID, start, _ time.Time) (int64, error) {
	return s.created[start.Format("2006-01-02")], nil
}

type stubHotels struct {
	roomTypes []hoteldomain.RoomType
}

func (s *stubHotels) Hotel(context.Context, snowflake.ID) (*hoteldomain.Hotel, error) {
	return nil, nil
}
func (s *stubHotels) YieldEnabledHotels(context.Context) ([]hoteldomain.Hotel, error) {
	return nil, nil
}
func (s *stubHotels) RoomTypes(context.Context, snowflake.ID) ([]hoteldomain.RoomType, error) {
	return s.roomTypes, nil
}
func (s *stubHotels) RoomType(context.Context, snowflake.ID, snowflake.ID) (*hoteldomain.RoomType, error) {
	return nil, nil
}
func (s *stubHotels) TotalRooms(context.Context, snowflake.ID) (int, error) {
	total := 0
	for _, rt := range s.roomTypes {
		total += rt.Rooms
	}
	return total, nil
}
func (s *stubHotels) Settings(context.Context, snowflake.ID) (*hoteldomain.YieldSettings, error) {
	return nil, nil
}
func (s *stubHotels) UpdateSettings(context.Context, *hoteldomain.YieldSettings) error { return nil }

func newTestAnalyzer(now time.Time, bookings *stubBookings, rooms int) *Analyzer {
	return newTestAnalyzerWithRooms(now, bookings, []hoteldomain.RoomType{
		{ID: 5, HotelID: 1, Name: "Standard", Rooms: rooms, Active: true},
	})
}

func newTestAnalyzerWithRooms(now time.Time, bookings *stubBookings, roomTypes []hoteldomain.RoomType) *Analyzer {
	return &Analyzer{
		log:      zap.NewNop(),
		clock:    fixedClock{now: now},
		bookings: bookings,
		hotels:   &stubHotels{roomTypes: roomTypes},
		memo:     map[string]memoEntry{},
	}
}

func TestAnalyzeNoHistoryReturnsNeutralSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(now, &stubBookings{}, 20)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	snapshot, err := a.Analyze(context.Background(), 1, start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Zero(t, snapshot.OccupancyRate)
	assert.Zero(t, snapshot.AverageDailyRate)
	assert.Zero(t, snapshot.RevPAR)
	assert.Equal(t, demanddomain.TrendFlat, snapshot.TrendDirection)
	for m := time.January; m <= time.December; m++ {
		assert.InDelta(t, 1.0, snapshot.SeasonalIndex[m], 0.001, "month %s", m)
	}
}

func TestAnalyzeOccupancyAndRates(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 10 rooms total; 4 rooms held for 2 nights at 800 total => ADR 100.
	bookings := &stubBookings{
		stays: []bookingdomain.Booking{
			{
				ID:          1,
				HotelID:     1,
				RoomTypeID:  5,
				Rooms:       4,
				CheckIn:     start,
				CheckOut:    start.AddDate(0, 0, 2),
				TotalAmount: 800,
				Status:      bookingdomain.BookingStatusConfirmed,
			},
		},
	}
	a := newTestAnalyzer(now, bookings, 10)

	snapshot, err := a.Analyze(context.Background(), 1, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.InDelta(t, 40, snapshot.OccupancyRate, 0.001) // 8 of 20 room-nights
	assert.InDelta(t, 100, snapshot.AverageDailyRate, 0.001)
	assert.InDelta(t, 40, snapshot.RevPAR, 0.001) // 800 / 20
	assert.InDelta(t, 40, snapshot.OccupancyByDate[start.Format("2006-01-02")], 0.001)
	assert.InDelta(t, 40, snapshot.OccupancyByRoom[5], 0.001)
}

func TestAnalyzeOccupancyPerRoomTypeUsesOwnInventory(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Both suites held for the whole window: the suite class is full even
	// though the hotel as a whole is nearly empty.
	bookings := &stubBookings{
		stays: []bookingdomain.Booking{
			{
				ID:          1,
				HotelID:     1,
				RoomTypeID:  6,
				Rooms:       2,
				CheckIn:     start,
				CheckOut:    start.AddDate(0, 0, 2),
				TotalAmount: 1600,
				Status:      bookingdomain.BookingStatusConfirmed,
			},
		},
	}
	a := newTestAnalyzerWithRooms(now, bookings, []hoteldomain.RoomType{
		{ID: 5, HotelID: 1, Name: "Standard", Rooms: 98, Active: true},
		{ID: 6, HotelID: 1, Name: "Suite", Rooms: 2, Active: true},
	})

	snapshot, err := a.Analyze(context.Background(), 1, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.InDelta(t, 100, snapshot.OccupancyByRoom[6], 0.001)
	assert.InDelta(t, 2, snapshot.OccupancyRate, 0.001) // 4 of 200 room-nights
	assert.NotContains(t, snapshot.OccupancyByRoom, snowflake.ID(5))
}

func TestAnalyzeForecastContiguousAndClamped(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(now, &stubBookings{}, 10)

	start := now
	end := now.AddDate(0, 0, 14)
	snapshot, err := a.Analyze(context.Background(), 1, start, end)
	require.NoError(t, err)

	require.Len(t, snapshot.Forecast, 14)
	for i, point := range snapshot.Forecast {
		assert.Equal(t, start.AddDate(0, 0, i), point.Date, "forecast dates must be gap-free")
		assert.GreaterOrEqual(t, point.DemandScore, 0.0)
		assert.LessOrEqual(t, point.DemandScore, 1.0)
		assert.InDelta(t, point.DemandScore*100, point.OccupancyPct, 0.001)
	}
}

func TestAnalyzeTrendDirection(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	created := map[string]int64{}
	// Older half quiet, recent half busy => increasing.
	for w := 0; w < 26; w++ {
		weekStart := now.Add(-time.Duration(w+1) * 7 * 24 * time.Hour)
		count := int64(2)
		if w < 13 {
			count = 10
		}
		created[weekStart.Format("2006-01-02")] = count
	}

	a := newTestAnalyzer(now, &stubBookings{created: created}, 10)
	snapshot, err := a.Analyze(context.Background(), 1, now, now.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, demanddomain.TrendIncreasing, snapshot.TrendDirection)
	assert.Greater(t, snapshot.Momentum, 0.0)
}

func TestAnalyzeMemoReturnsSameSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(now, &stubBookings{}, 10)

	first, err := a.Analyze(context.Background(), 1, now, now.AddDate(0, 0, 3))
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), 1, now, now.AddDate(0, 0, 3))
	require.NoError(t, err)

	assert.Same(t, first, second)
}
