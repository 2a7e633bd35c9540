package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper probes every configured endpoint on a cron schedule and reports
// reachability. It is advisory only: sweep results feed logs and metrics
// and never change the active target.
type Sweeper struct {
	client   *Client
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper for the given client. An empty schedule
// produces a sweeper whose Start is a no-op.
func NewSweeper(client *Client, schedule string) *Sweeper {
	return &Sweeper{
		client:   client,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "backend.sweeper"),
	}
}

// Start begins the scheduled sweep.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("endpoint sweep not configured, skipping")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.Sweep(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("endpoint sweep scheduled", "schedule", s.schedule)
	return nil
}

// Sweep probes every configured endpoint once.
func (s *Sweeper) Sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, url := range s.client.Registry().URLs() {
		err := s.client.Probe(sweepCtx, url)
		s.client.metrics.SetEndpointUp(url, err == nil)

		if err != nil {
			s.logger.Warn("endpoint unreachable",
				"endpoint", url,
				"error", err,
			)
		} else {
			s.logger.Debug("endpoint reachable", "endpoint", url)
		}
	}
}

// Stop halts the scheduled sweep and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	<-s.cron.Stop().Done()
}
