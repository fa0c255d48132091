// Package session runs one page view: it fetches the baseline, infers intent,
// publishes metadata and triggers the secondary lookups into a fresh
// aggregator.
package session

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/lox/weathercompare/internal/compare"
	"github.com/lox/weathercompare/internal/intent"
	"github.com/lox/weathercompare/internal/meta"
	"github.com/lox/weathercompare/internal/metrics"
	"github.com/lox/weathercompare/internal/models"
	"github.com/lox/weathercompare/internal/remote"
)

// DefaultYearsAgo is looked up on every page load before any intent.
const DefaultYearsAgo = 1

// Fetcher is the subset of the weather service client a page view needs.
type Fetcher interface {
	FetchBaseline(ctx context.Context) (*models.BaselineSnapshot, error)
	FetchYearsAgo(ctx context.Context, n int) (*models.CustomYearLookup, error)
	FetchWeeksAgo(ctx context.Context, n int) (*models.CustomWeekLookup, error)
	FetchPrediction(ctx context.Context) (*models.PredictionResult, error)
}

// Request carries the intent inputs of a page load.
type Request struct {
	Query    url.Values
	Referrer string
	Sink     meta.Sink // optional
}

// BaselineError means the page cannot render at all.
type BaselineError struct {
	Err error
}

func (e *BaselineError) Error() string {
	return fmt.Sprintf("fetch baseline: %v", e.Err)
}

func (e *BaselineError) Unwrap() error { return e.Err }

type PageView struct {
	ID        string
	fetcher   Fetcher
	agg       *compare.Aggregator
	intent    intent.Intent
	hasIntent bool
	metadata  meta.Metadata
	wg        sync.WaitGroup
}

// Open fetches the baseline and prepares a page view. Only a baseline failure
// is returned; it is the one failure the visitor sees.
func Open(ctx context.Context, f Fetcher, req Request) (*PageView, error) {
	id := uuid.NewString()

	baseline, err := f.FetchBaseline(ctx)
	if err != nil {
		metrics.ChannelFailures.WithLabelValues(string(compare.ChannelBaseline), remote.Kind(err)).Inc()
		log.Printf("session[%s]: baseline unavailable: %v", id, err)
		return nil, &BaselineError{Err: err}
	}

	p := &PageView{
		ID:      id,
		fetcher: f,
		agg:     compare.New(baseline, compare.WithLabel(id)),
	}

	query := req.Query
	if query == nil {
		query = url.Values{}
	}
	p.intent, p.hasIntent = intent.FromRequest(query, req.Referrer)
	if p.hasIntent {
		log.Printf("session[%s]: inferred %d years ago from %s", id, p.intent.YearsAgo, p.intent.Source)
	}

	p.metadata, _ = meta.NewPublisher(req.Sink).Publish(baseline, p.intent.YearsAgo, p.hasIntent)
	return p, nil
}

// Load triggers the lookups of a fresh page load: the default one-year
// comparison, the prediction, then the intent lookup if any. The intent lookup
// is issued last so it supersedes the default.
func (p *PageView) Load(ctx context.Context) {
	p.LookupYears(ctx, DefaultYearsAgo)
	p.RequestPrediction(ctx)
	if p.hasIntent {
		p.LookupYears(ctx, p.intent.YearsAgo)
	}
}

// LookupYears starts a custom-year lookup. It returns immediately.
func (p *PageView) LookupYears(ctx context.Context, n int) {
	t := p.agg.Begin(compare.ChannelCustomYear)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		var (
			lookup *models.CustomYearLookup
			err    error
		)
		defer func() {
			if r := recover(); r != nil {
				lookup, err = nil, fmt.Errorf("panic: %v", r)
			}
			p.agg.SetCustomYear(t, lookup, err)
		}()
		lookup, err = p.fetcher.FetchYearsAgo(ctx, n)
	}()
}

// LookupWeeks starts a custom-week lookup. It returns immediately.
func (p *PageView) LookupWeeks(ctx context.Context, n int) {
	t := p.agg.Begin(compare.ChannelCustomWeek)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		var (
			lookup *models.CustomWeekLookup
			err    error
		)
		defer func() {
			if r := recover(); r != nil {
				lookup, err = nil, fmt.Errorf("panic: %v", r)
			}
			p.agg.SetCustomWeek(t, lookup, err)
		}()
		lookup, err = p.fetcher.FetchWeeksAgo(ctx, n)
	}()
}

// RequestPrediction starts a prediction request. The aggregator reports the
// prediction as loading until it settles, whichever way it exits.
func (p *PageView) RequestPrediction(ctx context.Context) {
	t := p.agg.Begin(compare.ChannelPrediction)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		var (
			result *models.PredictionResult
			err    error
		)
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, fmt.Errorf("panic: %v", r)
			}
			p.agg.SetPrediction(t, result, err)
		}()
		result, err = p.fetcher.FetchPrediction(ctx)
	}()
}

// Wait blocks until every triggered lookup has settled or ctx is done. On
// ctx expiry the view renders whatever has settled so far.
func (p *PageView) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Aggregator exposes the page view's state.
func (p *PageView) Aggregator() *compare.Aggregator {
	return p.agg
}

// View snapshots the merged view model.
func (p *PageView) View() compare.View {
	return p.agg.View()
}

// Metadata returns the metadata published when the view was opened.
func (p *PageView) Metadata() meta.Metadata {
	return p.metadata
}

// Intent returns the inferred years-ago intent, if any.
func (p *PageView) Intent() (intent.Intent, bool) {
	return p.intent, p.hasIntent
}
