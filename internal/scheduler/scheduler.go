// Package scheduler drives the yield-management jobs: periodic recomputation
// of demand and prices across all yield-enabled hotels, with per-hotel
// failure isolation and run bookkeeping.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	"github.com/railzwaylabs/yieldway/internal/clock"
	"github.com/railzwaylabs/yieldway/internal/config"
	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	"github.com/railzwaylabs/yieldway/internal/events"
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobType string

const (
	JobHourly    JobType = "hourly_pricing"
	JobDaily     JobType = "daily_analysis"
	JobWeekly    JobType = "weekly_patterns"
	JobMonthly   JobType = "monthly_seasonal"
	JobSpike     JobType = "realtime_spike"
	JobMonitor   JobType = "performance_monitor"
	JobRetention JobType = "cache_retention"
)

// tickInterval is how often the loop checks the job table for due work.
const tickInterval = 30 * time.Second

type handler func(ctx context.Context) error

type job struct {
	jobType  JobType
	cadence  time.Duration
	nextFire time.Time
	running  bool
	handler  handler
}

type Scheduler struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	cfg      config.Config
	hotels   hoteldomain.Service
	demand   demanddomain.Analyzer
	calc     pricingdomain.Calculator
	cache    pricingdomain.Cache
	rules    ruledomain.Repository
	history  historydomain.Repository
	bookings bookingdomain.Repository
	events   events.Publisher
	genID    *snowflake.Node
	metrics  *metrics

	mu     sync.Mutex
	jobs   map[JobType]*job
	stats  map[JobType]*JobStats
	paused bool
	stop   chan struct{}
}

func (s *Scheduler) registerJobs(now time.Time) {
	add := func(jobType JobType, cadence time.Duration, h handler) {
		s.jobs[jobType] = &job{
			jobType:  jobType,
			cadence:  cadence,
			nextFire: now.Add(cadence),
			handler:  h,
		}
		s.stats[jobType] = &JobStats{}
	}

	add(JobHourly, time.Hour, s.runHourly)
	add(JobDaily, 24*time.Hour, s.runDaily)
	add(JobWeekly, 7*24*time.Hour, s.runWeekly)
	add(JobMonthly, 30*24*time.Hour, s.runMonthly)
	add(JobSpike, 10*time.Minute, s.runSpike)
	add(JobMonitor, 24*time.Hour, s.runMonitor)
	add(JobRetention, 24*time.Hour, s.runRetention)
}

// RunForever drives the job table until ctx is cancelled or Stop is called.
// Due jobs run sequentially: a single coordinating process keeps per-hotel
// writes free of cross-job races.
func (s *Scheduler) RunForever(ctx context.Context) {
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped", zap.Error(ctx.Err()))
			return
		case <-s.stop:
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.fireDue(ctx)
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) fireDue(ctx context.Context) {
	now := s.clock.Now(ctx)

	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return
	}
	var due []*job
	for _, j := range s.jobs {
		if !j.running && !now.Before(j.nextFire) {
			due = append(due, j)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, k int) bool { return due[i].jobType < due[k].jobType })
	for _, j := range due {
		s.runJob(ctx, j)
	}
}

// Trigger runs one job immediately, regardless of its schedule. Pause state
// does not block a manual trigger, but per-hotel isolation still applies.
func (s *Scheduler) Trigger(ctx context.Context, jobType JobType) error {
	s.mu.Lock()
	j, ok := s.jobs[jobType]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown job type %q", jobType)
	}
	if j.running {
		s.mu.Unlock()
		return fmt.Errorf("job %q is already running", jobType)
	}
	s.mu.Unlock()

	s.runJob(ctx, j)
	return nil
}

func (s *Scheduler) PauseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	s.log.Info("scheduler paused")
}

func (s *Scheduler) ResumeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	s.log.Info("scheduler resumed")
}

// RestartAll resumes a paused scheduler and re-arms every job to fire on its
// next tick.
func (s *Scheduler) RestartAll(ctx context.Context) {
	now := s.clock.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	for _, j := range s.jobs {
		j.nextFire = now
	}
	s.log.Info("scheduler restarted")
}

type JobStatus struct {
	Type     JobType       `json:"type"`
	Cadence  time.Duration `json:"cadence"`
	NextFire time.Time     `json:"next_fire"`
	Running  bool          `json:"running"`
	Stats    JobStats      `json:"stats"`
}

func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for jobType, j := range s.jobs {
		out = append(out, JobStatus{
			Type:     jobType,
			Cadence:  j.cadence,
			NextFire: j.nextFire,
			Running:  j.running,
			Stats:    *s.stats[jobType],
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Type < out[k].Type })
	return out
}

func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Scheduler) ActiveJobs() []JobType {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []JobType
	for jobType, j := range s.jobs {
		if j.running {
			active = append(active, jobType)
		}
	}
	sort.Slice(active, func(i, k int) bool { return active[i] < active[k] })
	return active
}
