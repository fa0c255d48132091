// Package compare merges the baseline snapshot with the independently fetched
// lookups of one page view and derives the comparison metrics shown on it.
package compare

import (
	"errors"
	"log"
	"sync"

	"github.com/lox/weathercompare/internal/metrics"
	"github.com/lox/weathercompare/internal/models"
	"github.com/lox/weathercompare/internal/remote"
)

// Channel is one independently fetched slice of page state.
type Channel string

const (
	ChannelBaseline   Channel = "baseline"
	ChannelCustomYear Channel = "custom_year"
	ChannelCustomWeek Channel = "custom_week"
	ChannelPrediction Channel = "prediction"
)

// Ticket identifies one request on a channel. Sequence numbers increase
// monotonically per channel; only responses newer than the last settled one
// are applied.
type Ticket struct {
	Channel Channel
	Seq     uint64
}

type sequence struct {
	issued  uint64
	settled uint64
}

func (s *sequence) inFlight() bool {
	return s.issued > s.settled
}

var errEmptyResponse = errors.New("empty response")

// Aggregator owns the state of a single page view. It is safe for concurrent
// use: each channel's response may arrive on its own goroutine.
type Aggregator struct {
	mu         sync.Mutex
	label      string
	onFailure  func(Channel, error)
	baseline   *models.BaselineSnapshot
	customYear *models.CustomYearLookup
	customWeek *models.CustomWeekLookup
	prediction *models.PredictionResult
	seq        map[Channel]*sequence
}

type Option func(*Aggregator)

// WithLabel tags log lines, typically with the page view ID.
func WithLabel(label string) Option {
	return func(a *Aggregator) { a.label = label }
}

// WithFailureHook is called, outside the lock, for every channel failure
// after it has been logged and counted.
func WithFailureHook(fn func(Channel, error)) Option {
	return func(a *Aggregator) { a.onFailure = fn }
}

// New returns an aggregator seeded with baseline. A nil baseline leaves it
// uninitialized until Initialize is called.
func New(baseline *models.BaselineSnapshot, opts ...Option) *Aggregator {
	a := &Aggregator{
		seq: map[Channel]*sequence{
			ChannelCustomYear: {},
			ChannelCustomWeek: {},
			ChannelPrediction: {},
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if baseline != nil {
		a.Initialize(baseline)
	}
	return a
}

// Initialize seeds the baseline. It takes effect once per aggregator;
// later calls are logged and ignored.
func (a *Aggregator) Initialize(baseline *models.BaselineSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.baseline != nil {
		log.Printf("compare[%s]: baseline already initialized, ignoring", a.label)
		return
	}
	a.baseline = baseline
}

// Baseline returns the active baseline, or nil before Initialize.
func (a *Aggregator) Baseline() *models.BaselineSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.baseline
}

// Begin issues a ticket for a new request on ch. Beginning a prediction
// request marks the prediction as loading until a ticket at least this new
// settles.
func (a *Aggregator) Begin(ch Channel) Ticket {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.sequence(ch)
	s.issued++
	return Ticket{Channel: ch, Seq: s.issued}
}

// Loading reports whether ch has a request newer than the last settled one.
func (a *Aggregator) Loading(ch Channel) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sequence(ch).inFlight()
}

// PredictionLoading reports whether a prediction request is in flight.
func (a *Aggregator) PredictionLoading() bool {
	return a.Loading(ChannelPrediction)
}

// SetCustomYear applies a custom-year response. On failure the custom-year
// state is cleared; the error is logged, never returned. It reports whether
// the response was applied rather than discarded as stale.
func (a *Aggregator) SetCustomYear(t Ticket, lookup *models.CustomYearLookup, err error) bool {
	if err == nil && lookup == nil {
		err = errEmptyResponse
	}
	return a.settle(t, ChannelCustomYear, err, func() {
		if err != nil {
			a.customYear = nil
			return
		}
		a.customYear = lookup
	})
}

// SetCustomWeek applies a custom-week response with the same replace-or-clear
// semantics as SetCustomYear, on its own channel.
func (a *Aggregator) SetCustomWeek(t Ticket, lookup *models.CustomWeekLookup, err error) bool {
	if err == nil && lookup == nil {
		err = errEmptyResponse
	}
	return a.settle(t, ChannelCustomWeek, err, func() {
		if err != nil {
			a.customWeek = nil
			return
		}
		a.customWeek = lookup
	})
}

// SetPrediction applies a prediction response. A result with Success=false is
// a domain failure and clears the state like any other failure. The loading
// flag is released whenever this ticket is the newest issued.
func (a *Aggregator) SetPrediction(t Ticket, result *models.PredictionResult, err error) bool {
	switch {
	case err != nil:
	case result == nil:
		err = errEmptyResponse
	case !result.Success:
		err = &remote.DomainFailure{Endpoint: remote.EndpointPrediction, Reason: result.Error}
	}
	return a.settle(t, ChannelPrediction, err, func() {
		if err != nil {
			a.prediction = nil
			return
		}
		a.prediction = result
	})
}

func (a *Aggregator) settle(t Ticket, ch Channel, err error, apply func()) bool {
	a.mu.Lock()
	s := a.sequence(ch)
	if t.Channel != ch || t.Seq <= s.settled {
		settled := s.settled
		a.mu.Unlock()
		metrics.StaleResponsesDropped.WithLabelValues(string(ch)).Inc()
		log.Printf("compare[%s]: dropping stale %s response (seq %d, settled %d)", a.label, ch, t.Seq, settled)
		return false
	}
	s.settled = t.Seq
	if s.issued < t.Seq {
		s.issued = t.Seq
	}
	apply()
	hook := a.onFailure
	a.mu.Unlock()

	if err != nil {
		metrics.ChannelFailures.WithLabelValues(string(ch), remote.Kind(err)).Inc()
		log.Printf("compare[%s]: %s lookup failed (%s): %v", a.label, ch, remote.Kind(err), err)
		if hook != nil {
			hook(ch, err)
		}
	}
	return true
}

func (a *Aggregator) sequence(ch Channel) *sequence {
	s, ok := a.seq[ch]
	if !ok {
		s = &sequence{}
		a.seq[ch] = s
	}
	return s
}

// CustomYear returns the current custom-year lookup, or nil when absent.
func (a *Aggregator) CustomYear() *models.CustomYearLookup {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.customYear
}

// CustomWeek returns the current custom-week lookup, or nil when absent.
func (a *Aggregator) CustomWeek() *models.CustomWeekLookup {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.customWeek
}

// Prediction returns the current successful prediction, or nil when absent.
func (a *Aggregator) Prediction() *models.PredictionResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prediction
}

// DeltaAgainstBaseline compares temp with the baseline high temperature. It
// reports false when there is no numeric baseline high to compare against.
func (a *Aggregator) DeltaAgainstBaseline(temp float64) (Delta, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deltaLocked(temp)
}

// Compare is DeltaAgainstBaseline for a temperature as received from the
// service. Absent or non-numeric input leaves the comparison undefined.
func (a *Aggregator) Compare(t models.Temp) (Delta, bool) {
	v, ok := t.Value()
	if !ok {
		return Delta{}, false
	}
	return a.DeltaAgainstBaseline(v)
}

func (a *Aggregator) deltaLocked(temp float64) (Delta, bool) {
	high, ok := a.baseline.HighTemp()
	if !ok {
		return Delta{}, false
	}
	return NewDelta(high, temp), true
}

func (a *Aggregator) compareLocked(t models.Temp) *Delta {
	v, ok := t.Value()
	if !ok {
		return nil
	}
	d, ok := a.deltaLocked(v)
	if !ok {
		return nil
	}
	return &d
}
