// Package keepalive pings the weather service's health endpoint on a fixed
// interval so an idle free-tier host does not spin down.
package keepalive

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lox/weathercompare/internal/metrics"
)

const (
	DefaultInterval = 10 * time.Minute
	pingTimeout     = 30 * time.Second
)

// Checker is satisfied by remote.Client.
type Checker interface {
	Health(ctx context.Context) error
}

// Pinger periodically calls a Checker.
type Pinger struct {
	scheduler *gocron.Scheduler
	checker   Checker
	interval  time.Duration
}

func New(checker Checker, interval time.Duration) *Pinger {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pinger{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		interval:  interval,
	}
}

// Ping performs a single health check. Failures are logged and counted, never
// returned to callers of the scheduler.
func (p *Pinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := p.checker.Health(ctx); err != nil {
		metrics.KeepAlivePings.WithLabelValues("error").Inc()
		log.Printf("keepalive: ping failed: %v", err)
		return err
	}
	metrics.KeepAlivePings.WithLabelValues("ok").Inc()
	return nil
}

// Start schedules the ping, running the first one immediately.
func (p *Pinger) Start() error {
	_, err := p.scheduler.Every(p.interval).Do(func() {
		p.Ping(context.Background())
	})
	if err != nil {
		return err
	}
	log.Printf("keepalive: pinging every %s", p.interval)
	p.scheduler.StartAsync()
	return nil
}

// Stop cancels future pings.
func (p *Pinger) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Run starts the pinger and stops it when ctx is done.
func (p *Pinger) Run(ctx context.Context) error {
	if err := p.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	p.Stop()
	return nil
}
