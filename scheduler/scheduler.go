package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/model"
)

// Renderer receives the result of each cycle. Implementations own the
// display; a render error never stops the loop.
type Renderer interface {
	RenderDepartures(departures []model.Departure, cfg config.Snapshot) error
	RenderMessage(text string) error
}

type DepartureFetcher interface {
	Fetch(ctx context.Context, cfg config.Snapshot) ([]model.Departure, error)
}

// Scheduler drives the board: one cycle at a time, strictly sequential.
type Scheduler struct {
	Logger   *dlog.Logger
	Config   config.Provider
	Fetcher  DepartureFetcher
	Renderer Renderer
	Clock    model.Clock
	Location *time.Location
	// Sleep defaults to SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run repeats RunOnce until ctx is cancelled and returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	sleep := s.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for {
		d := s.RunOnce(ctx)
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
}

// RunOnce performs a single cycle and returns how long to sleep before the
// next one. Configuration is loaded fresh every time so edits made through
// the editor apply from the next cycle.
func (s *Scheduler) RunOnce(ctx context.Context) time.Duration {
	logger := s.Logger.Child("[" + uuid.NewString()[:8] + "]")

	cfg, err := s.Config.Load()
	if err != nil {
		logger.Printf("cannot load configuration, retrying in %s: %s", ActiveInterval, err)
		return ActiveInterval
	}

	now := s.Clock.Now().In(s.Location)
	mode, d := Decide(now.Hour())

	logger.Debugf("%s mode at %02d:%02d", mode, now.Hour(), now.Minute())

	switch mode {
	case Quiet:
		logger.Printf("after %02d:00 (%02d:%02d), sleeping for %s", QuietStartHour, now.Hour(), now.Minute(), d)
		if err := s.Renderer.RenderMessage(QuietMessage); err != nil {
			logger.Printf("cannot show quiet message: %s", err)
		}
	default:
		// The request is not tied to shutdown; it finishes or fails on the
		// HTTP client timeout.
		departures, err := s.Fetcher.Fetch(context.WithoutCancel(ctx), cfg)
		if err != nil {
			logger.Printf("cannot fetch departures for `%s`: %s", cfg.StopPointRef, err)
		}

		logger.Debugf("%d departures to show", len(departures))

		if err := s.Renderer.RenderDepartures(departures, cfg); err != nil {
			logger.Printf("cannot show departures: %s", err)
		}
	}

	return d
}

func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
