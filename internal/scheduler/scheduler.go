package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Builder produces one aggregate per request.
type Builder interface {
	BuildResult(ctx context.Context, req weather.Request) weather.Result
}

// Sink receives every refreshed aggregate.
type Sink interface {
	Apply(req weather.Request, res weather.Result)
}

// Scheduler periodically rebuilds the watched dashboard views.
type Scheduler struct {
	scheduler *gocron.Scheduler
	builder   Builder
	requests  []weather.Request
	interval  time.Duration
	timeout   time.Duration
	sinks     []Sink
}

// New creates a new Scheduler.
func New(requests []weather.Request, interval time.Duration, builder Builder, sinks ...Sink) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		builder:   builder,
		requests:  requests,
		interval:  interval,
		timeout:   30 * time.Second,
		sinks:     sinks,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.requests) == 0 {
		log.Println("scheduler: no views configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running dashboard refresh job")
		s.Refresh(context.Background())
		log.Println("scheduler: completed dashboard refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Refresh builds every watched view concurrently and hands each result to the
// sinks. Builds are never cancelled by a newer refresh.
func (s *Scheduler) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	for _, req := range s.requests {
		req := req
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := s.builder.BuildResult(ctx, req)
			if !res.Live() {
				log.Printf("scheduler: %s refreshed with fallback data: %v", req.Key(), res.Err)
			}
			for _, sink := range s.sinks {
				sink.Apply(req, res)
			}
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
