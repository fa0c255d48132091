package keepalive

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingChecker struct {
	calls atomic.Int32
	err   error
}

func (c *countingChecker) Health(ctx context.Context) error {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	return c.err
}

func TestPing(t *testing.T) {
	ok := &countingChecker{}
	if err := New(ok, time.Minute).Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	failing := &countingChecker{err: errors.New("503")}
	if err := New(failing, time.Minute).Ping(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	p := New(&countingChecker{}, 0)
	if p.interval != DefaultInterval {
		t.Errorf("interval = %s, want %s", p.interval, DefaultInterval)
	}
}

func TestStart_PingsImmediately(t *testing.T) {
	c := &countingChecker{}
	p := New(c, time.Hour)
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for c.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no ping after start")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
