package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	"github.com/railzwaylabs/yieldway/internal/clock"
	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const dateKey = "2006-01-02"

// memoTTL bounds how long an analysis result is reused before recomputing.
const memoTTL = 10 * time.Minute

type Analyzer struct {
	log      *zap.Logger
	clock    clock.Clock
	bookings bookingdomain.Repository
	hotels   hoteldomain.Service

	mu   sync.Mutex
	memo map[string]memoEntry
}

type memoEntry struct {
	snapshot *demanddomain.Snapshot
	storedAt time.Time
}

type AnalyzerParam struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Bookings bookingdomain.Repository
	Hotels   hoteldomain.Service
}

func NewAnalyzer(p AnalyzerParam) demanddomain.Analyzer {
	return &Analyzer{
		log:      p.Log.Named("demand.analyzer"),
		clock:    p.Clock,
		bookings: p.Bookings,
		hotels:   p.Hotels,
		memo:     make(map[string]memoEntry),
	}
}

func (a *Analyzer) Analyze(ctx context.Context, hotelID snowflake.ID, start, end time.Time) (*demanddomain.Snapshot, error) {
	now := a.clock.Now(ctx)

	key := fmt.Sprintf("%d:%s:%s", hotelID, start.Format(dateKey), end.Format(dateKey))
	a.mu.Lock()
	if entry, ok := a.memo[key]; ok && now.Sub(entry.storedAt) < memoTTL {
		a.mu.Unlock()
		return entry.snapshot, nil
	}
	a.mu.Unlock()

	roomTypes, err := a.hotels.RoomTypes(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	roomCounts := make(map[snowflake.ID]int, len(roomTypes))
	totalRooms := 0
	for _, rt := range roomTypes {
		roomCounts[rt.ID] = rt.Rooms
		totalRooms += rt.Rooms
	}

	snapshot := &demanddomain.Snapshot{
		HotelID:         hotelID,
		WindowStart:     start,
		WindowEnd:       end,
		OccupancyByRoom: map[snowflake.ID]float64{},
		OccupancyByDate: map[string]float64{},
		TrendDirection:  demanddomain.TrendFlat,
		ComputedAt:      now,
	}
	for m := time.January; m <= time.December; m++ {
		snapshot.SeasonalIndex[m] = 1.0
	}

	stays, err := a.bookings.ListStays(ctx, hotelID, start, end)
	if err != nil {
		return nil, err
	}

	a.computeOccupancy(snapshot, stays, totalRooms, roomCounts, start, end)

	if err := a.computeSeasonality(ctx, snapshot, hotelID, now); err != nil {
		return nil, err
	}
	if err := a.computeTrend(ctx, snapshot, hotelID, now); err != nil {
		return nil, err
	}

	a.computeForecast(snapshot, now)

	a.mu.Lock()
	a.memo[key] = memoEntry{snapshot: snapshot, storedAt: now}
	a.mu.Unlock()

	return snapshot, nil
}

func (a *Analyzer) CurrentOccupancy(ctx context.Context, hotelID snowflake.ID) (float64, error) {
	now := a.clock.Now(ctx)
	day := now.Truncate(24 * time.Hour)
	snapshot, err := a.Analyze(ctx, hotelID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}
	return snapshot.OccupancyRate, nil
}

// computeOccupancy fills occupancy, ADR, and RevPAR from the stays that
// overlap the window. All denominators are guarded; a hotel with no rooms or
// no stays yields zeros.
func (a *Analyzer) computeOccupancy(snapshot *demanddomain.Snapshot, stays []bookingdomain.Booking, totalRooms int, roomCounts map[snowflake.ID]int, start, end time.Time) {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}

	occupiedByDate := make(map[string]int, days)
	roomNightsByType := map[snowflake.ID]int{}
	occupiedRoomNights := 0
	revenue := 0.0

	for _, stay := range stays {
		nights := stay.Nights()
		if nights == 0 {
			continue
		}
		perNight := stay.TotalAmount / float64(nights*maxInt(stay.Rooms, 1))

		for d := 0; d < days; d++ {
			date := start.AddDate(0, 0, d)
			if !stay.Covers(date) {
				continue
			}
			occupiedByDate[date.Format(dateKey)] += stay.Rooms
			roomNightsByType[stay.RoomTypeID] += stay.Rooms
			occupiedRoomNights += stay.Rooms
			revenue += perNight * float64(stay.Rooms)
		}
	}

	if totalRooms > 0 {
		for d := 0; d < days; d++ {
			date := start.AddDate(0, 0, d).Format(dateKey)
			pct := float64(occupiedByDate[date]) / float64(totalRooms) * 100
			snapshot.OccupancyByDate[date] = clampPct(pct)
		}
		totalRoomNights := totalRooms * days
		snapshot.OccupancyRate = clampPct(float64(occupiedRoomNights) / float64(totalRoomNights) * 100)
		snapshot.RevPAR = revenue / float64(totalRoomNights)

		for roomType, nights := range roomNightsByType {
			rooms := roomCounts[roomType]
			if rooms <= 0 {
				continue
			}
			snapshot.OccupancyByRoom[roomType] = clampPct(float64(nights) / float64(days*rooms) * 100)
		}
	}

	if occupiedRoomNights > 0 {
		snapshot.AverageDailyRate = revenue / float64(occupiedRoomNights)
	}
}

// computeSeasonality derives a per-month index from up to two years of
// history: average daily room-nights in the month over the overall average.
func (a *Analyzer) computeSeasonality(ctx context.Context, snapshot *demanddomain.Snapshot, hotelID snowflake.ID, now time.Time) error {
	lookbackStart := now.Add(-seasonalLookback)
	stays, err := a.bookings.ListStays(ctx, hotelID, lookbackStart, now)
	if err != nil {
		return err
	}
	if len(stays) == 0 {
		return nil
	}

	var roomNights [13]float64
	var daysObserved [13]float64

	for d := lookbackStart; d.Before(now); d = d.AddDate(0, 0, 1) {
		daysObserved[d.Month()]++
	}
	for _, stay := range stays {
		for d := stay.CheckIn; d.Before(stay.CheckOut); d = d.AddDate(0, 0, 1) {
			if d.Before(lookbackStart) || !d.Before(now) {
				continue
			}
			roomNights[d.Month()] += float64(stay.Rooms)
		}
	}

	total, totalDays := 0.0, 0.0
	for m := time.January; m <= time.December; m++ {
		total += roomNights[m]
		totalDays += daysObserved[m]
	}
	if total == 0 || totalDays == 0 {
		return nil
	}
	overallDaily := total / totalDays

	for m := time.January; m <= time.December; m++ {
		if daysObserved[m] == 0 {
			continue
		}
		monthDaily := roomNights[m] / daysObserved[m]
		if overallDaily > 0 {
			snapshot.SeasonalIndex[m] = monthDaily / overallDaily
		}
	}
	return nil
}

// computeTrend buckets booking volume by calendar week over the trailing six
// months and compares the two halves of the series.
func (a *Analyzer) computeTrend(ctx context.Context, snapshot *demanddomain.Snapshot, hotelID snowflake.ID, now time.Time) error {
	weeks := int(trendLookback / (7 * 24 * time.Hour))
	counts := make([]float64, weeks)

	for w := 0; w < weeks; w++ {
		weekEnd := now.Add(-time.Duration(w) * 7 * 24 * time.Hour)
		weekStart := weekEnd.Add(-7 * 24 * time.Hour)
		count, err := a.bookings.CountCreatedBetween(ctx, hotelID, weekStart, weekEnd)
		if err != nil {
			return err
		}
		counts[weeks-1-w] = float64(count)
	}

	half := weeks / 2
	older, recent := avg(counts[:half]), avg(counts[half:])
	if older == 0 {
		if recent > 0 {
			snapshot.Momentum = 1.0
			snapshot.TrendDirection = demanddomain.TrendIncreasing
		}
		return nil
	}

	snapshot.Momentum = (recent - older) / older
	switch {
	case snapshot.Momentum > momentumThreshold:
		snapshot.TrendDirection = demanddomain.TrendIncreasing
	case snapshot.Momentum < -momentumThreshold:
		snapshot.TrendDirection = demanddomain.TrendDecreasing
	default:
		snapshot.TrendDirection = demanddomain.TrendFlat
	}
	return nil
}

// computeForecast scores every future date in the window. The forecast range
// is contiguous: every date from max(start, today) to the window end gets a
// point, gaps never appear.
func (a *Analyzer) computeForecast(snapshot *demanddomain.Snapshot, now time.Time) {
	today := now.Truncate(24 * time.Hour)
	from := snapshot.WindowStart
	if from.Before(today) {
		from = today
	}

	base := baseDemandScore
	if snapshot.OccupancyRate > 0 {
		base = snapshot.OccupancyRate / 100
	}

	for d := from; d.Before(snapshot.WindowEnd); d = d.AddDate(0, 0, 1) {
		daysOut := int(d.Sub(today).Hours() / 24)
		score := base *
			snapshot.SeasonalIndexFor(d.Month()) *
			forecastWeekday[d.Weekday()] *
			forecastLeadTime(daysOut)
		score = clamp01(score)

		snapshot.Forecast = append(snapshot.Forecast, demanddomain.ForecastPoint{
			Date:         d,
			DemandScore:  score,
			OccupancyPct: score * 100,
		})
	}
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
