package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/yieldway/internal/events"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"go.uber.org/zap"
)

// JobRun is the persisted record of one job execution, including the
// per-hotel sub-results.
type JobRun struct {
	ID           snowflake.ID  `gorm:"primaryKey"`
	JobType      JobType       `gorm:"type:text;not null;index"`
	StartedAt    time.Time     `gorm:"not null"`
	FinishedAt   time.Time     `gorm:"not null"`
	Success      bool          `gorm:"not null"`
	Error        string        `gorm:"type:text"`
	HotelResults []HotelResult `gorm:"serializer:json"`
}

func (JobRun) TableName() string { return "yield_job_runs" }

type HotelResult struct {
	HotelID  snowflake.ID  `json:"hotel_id"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// JobStats aggregates run outcomes for health reporting. AvgDuration is a
// rolling mean over all recorded runs.
type JobStats struct {
	TotalRuns   int64         `json:"total_runs"`
	Successes   int64         `json:"successes"`
	Failures    int64         `json:"failures"`
	AvgDuration time.Duration `json:"avg_duration"`
	LastRunAt   time.Time     `json:"last_run_at"`
}

func (s *Scheduler) runJob(ctx context.Context, j *job) {
	now := s.clock.Now(ctx)

	s.mu.Lock()
	j.running = true
	s.mu.Unlock()

	log := s.log.With(zap.String("job", string(j.jobType)))
	log.Info("job started")

	run := &JobRun{
		ID:        s.genID.Generate(),
		JobType:   j.jobType,
		StartedAt: now,
	}

	err := s.invoke(ctx, j, run)

	finished := s.clock.Now(ctx)
	run.FinishedAt = finished
	run.Success = err == nil
	duration := finished.Sub(run.StartedAt)

	if err != nil {
		run.Error = err.Error()
		log.Error("job failed", zap.Duration("duration", duration), zap.Error(err))
		s.events.Publish(ctx, events.New(events.EventJobFailed, "", finished, map[string]any{
			"job":   string(j.jobType),
			"error": err.Error(),
		}))
	} else {
		log.Info("job finished", zap.Duration("duration", duration))
	}

	if dbErr := s.db.WithContext(ctx).Create(run).Error; dbErr != nil {
		log.Warn("failed to persist job run", zap.Error(dbErr))
	}

	s.mu.Lock()
	j.running = false
	j.nextFire = finished.Add(j.cadence)

	// Stats update after every run regardless of outcome.
	stats := s.stats[j.jobType]
	prevRuns := stats.TotalRuns
	stats.TotalRuns++
	if err == nil {
		stats.Successes++
	} else {
		stats.Failures++
	}
	stats.AvgDuration = time.Duration(
		(int64(stats.AvgDuration)*prevRuns + int64(duration)) / stats.TotalRuns,
	)
	stats.LastRunAt = finished
	s.mu.Unlock()

	s.metrics.observe(j.jobType, err == nil, duration)
}

// invoke shields the scheduler loop from handler panics; a panicking job is
// a failed run, not a dead scheduler.
func (s *Scheduler) invoke(ctx context.Context, j *job, run *JobRun) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panic: %v", r)
		}
	}()
	ctx = withRun(ctx, run)
	return j.handler(ctx)
}

type runCtxKey struct{}

func withRun(ctx context.Context, run *JobRun) context.Context {
	return context.WithValue(ctx, runCtxKey{}, run)
}

func runFrom(ctx context.Context) *JobRun {
	run, _ := ctx.Value(runCtxKey{}).(*JobRun)
	return run
}

// forEachHotel iterates all yield-enabled hotels sequentially, each inside
// its own failure boundary and timeout. One hotel's failure is recorded and
// logged, then processing continues with its siblings.
func (s *Scheduler) forEachHotel(ctx context.Context, fn func(ctx context.Context, hotel hoteldomain.Hotel) error) error {
	hotels, err := s.hotels.YieldEnabledHotels(ctx)
	if err != nil {
		return fmt.Errorf("listing yield-enabled hotels: %w", err)
	}

	run := runFrom(ctx)
	for i, hotel := range hotels {
		if i > 0 && s.cfg.Yield.BatchPause > 0 {
			time.Sleep(s.cfg.Yield.BatchPause)
		}

		started := s.clock.Now(ctx)
		hotelErr := s.runHotel(ctx, hotel, fn)
		result := HotelResult{
			HotelID:  hotel.ID,
			Success:  hotelErr == nil,
			Duration: s.clock.Now(ctx).Sub(started),
		}
		if hotelErr != nil {
			result.Error = hotelErr.Error()
			s.log.Error("hotel processing failed",
				zap.String("hotel_id", hotel.ID.String()),
				zap.Error(hotelErr),
			)
		}
		if run != nil {
			run.HotelResults = append(run.HotelResults, result)
		}
	}
	return nil
}

func (s *Scheduler) runHotel(ctx context.Context, hotel hoteldomain.Hotel, fn func(ctx context.Context, hotel hoteldomain.Hotel) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hotel panic: %v", r)
		}
	}()

	if s.cfg.Yield.PerHotelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Yield.PerHotelTimeout)
		defer cancel()
	}
	return fn(ctx, hotel)
}
