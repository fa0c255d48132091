package session

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/lox/weathercompare/internal/compare"
	"github.com/lox/weathercompare/internal/meta"
	"github.com/lox/weathercompare/internal/models"
	"github.com/lox/weathercompare/internal/remote"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFetcher struct {
	mu          sync.Mutex
	baseline    *models.BaselineSnapshot
	baselineErr error
	years       map[int]models.Temp
	yearsGate   map[int]chan struct{} // blocks the lookup until closed
	weeksErr    error
	prediction  *models.PredictionResult
	predErr     error
	predPanic   bool
	yearCalls   []int
}

func (f *fakeFetcher) FetchBaseline(ctx context.Context) (*models.BaselineSnapshot, error) {
	return f.baseline, f.baselineErr
}

func (f *fakeFetcher) FetchYearsAgo(ctx context.Context, n int) (*models.CustomYearLookup, error) {
	f.mu.Lock()
	f.yearCalls = append(f.yearCalls, n)
	gate := f.yearsGate[n]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	temp, ok := f.years[n]
	if !ok {
		return nil, &remote.NetworkError{Endpoint: remote.EndpointCustomYear, StatusCode: 404, Err: errors.New("not found")}
	}
	return &models.CustomYearLookup{YearsAgo: n, Date: "2000-10-19", Temp: temp, Condition: "晴"}, nil
}

func (f *fakeFetcher) FetchWeeksAgo(ctx context.Context, n int) (*models.CustomWeekLookup, error) {
	if f.weeksErr != nil {
		return nil, f.weeksErr
	}
	days := make(models.WeekSeries, n*7)
	for i := range days {
		days[i] = models.WeekDay{DaysAgo: i + 1, Temp: "20.0"}
	}
	return &models.CustomWeekLookup{Weeks: n, TotalDays: n * 7, Days: days}, nil
}

func (f *fakeFetcher) FetchPrediction(ctx context.Context) (*models.PredictionResult, error) {
	if f.predPanic {
		panic("prediction decoder exploded")
	}
	return f.prediction, f.predErr
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		baseline: &models.BaselineSnapshot{
			Today: models.TodayPoint{Date: "2026-10-19", Condition: "晴れ", High: "28.5"},
			History: []models.HistoricalPoint{
				{YearsAgo: 1, Date: "2025-10-19", Temp: "24.0"},
			},
			Week: models.WeekSeries{{DaysAgo: 1, Temp: "23.0"}},
		},
		years: map[int]models.Temp{1: "24.0", 5: "24.0", 15: "21.0"},
		prediction: &models.PredictionResult{
			Success:      true,
			CurrentMonth: &models.MonthPrediction{Month: 10, Trend: "暖かい", PredictedTemp: 19.5},
			DataSource:   "jma",
		},
	}
}

func TestOpen_BaselineFailureIsBlocking(t *testing.T) {
	f := newFetcher()
	f.baselineErr = &remote.NetworkError{Endpoint: remote.EndpointBaseline, Err: errors.New("refused")}

	p, err := Open(context.Background(), f, Request{})
	if p != nil {
		t.Error("expected no page view")
	}
	var be *BaselineError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want BaselineError", err)
	}
	if remote.Kind(err) != "network" {
		t.Errorf("Kind = %q, want network", remote.Kind(err))
	}
}

func TestLoad_DefaultLookups(t *testing.T) {
	f := newFetcher()
	var pushed []meta.Metadata
	p, err := Open(context.Background(), f, Request{Sink: meta.SinkFunc(func(m meta.Metadata) { pushed = append(pushed, m) })})
	if err != nil {
		t.Fatal(err)
	}
	p.Load(context.Background())
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	v := p.View()
	if v.CustomYear == nil || v.CustomYear.YearsAgo != 1 {
		t.Errorf("custom year = %+v, want default 1 year", v.CustomYear)
	}
	if v.Prediction == nil || v.PredictionLoading {
		t.Errorf("prediction = %+v loading=%v", v.Prediction, v.PredictionLoading)
	}
	if len(pushed) != 1 || pushed[0].Title != meta.DefaultTitle {
		t.Errorf("metadata pushes = %+v", pushed)
	}
	if _, ok := p.Intent(); ok {
		t.Error("unexpected intent")
	}
}

func TestLoad_IntentSupersedesDefault(t *testing.T) {
	f := newFetcher()
	// The default lookup answers last; its stale response must not win.
	gate := make(chan struct{})
	f.yearsGate = map[int]chan struct{}{DefaultYearsAgo: gate}

	query, _ := url.ParseQuery("years=15")
	p, err := Open(context.Background(), f, Request{Query: query, Referrer: "10年前の気温"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Metadata().Title != "15年前の気温 | 天気比較" {
		t.Errorf("title = %q", p.Metadata().Title)
	}

	p.Load(context.Background())

	deadline := time.After(2 * time.Second)
	for p.Aggregator().CustomYear() == nil {
		select {
		case <-deadline:
			close(gate)
			t.Fatal("intent lookup never settled")
		case <-time.After(time.Millisecond):
		}
	}
	close(gate)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	v := p.View()
	if v.CustomYear == nil || v.CustomYear.YearsAgo != 15 {
		t.Fatalf("custom year = %+v, want 15", v.CustomYear)
	}
	if v.CustomYear.Delta == nil || v.CustomYear.Delta.Value != 7.5 {
		t.Errorf("delta = %+v, want 7.5", v.CustomYear.Delta)
	}
}

func TestLookupFailureDegradesSilently(t *testing.T) {
	f := newFetcher()
	f.weeksErr = &remote.ParseError{Endpoint: remote.EndpointCustomWeek, Err: errors.New("bad json")}

	p, err := Open(context.Background(), f, Request{})
	if err != nil {
		t.Fatal(err)
	}
	p.LookupYears(context.Background(), 5)
	p.LookupWeeks(context.Background(), 2)
	p.LookupYears(context.Background(), 77) // unknown to the fake: fails
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	v := p.View()
	if v.CustomYear != nil {
		t.Errorf("custom year = %+v, want cleared by the later failure", v.CustomYear)
	}
	if v.Week.Custom {
		t.Error("failed custom week should fall back to the default series")
	}
	if len(v.Week.Days) != 1 {
		t.Errorf("week days = %d, want baseline default", len(v.Week.Days))
	}
}

func TestLookupWeeks(t *testing.T) {
	p, err := Open(context.Background(), newFetcher(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	p.LookupWeeks(context.Background(), 2)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	v := p.View().Week
	if !v.Custom || v.Weeks != 2 || len(v.Days) != 14 {
		t.Errorf("week view = %+v", v)
	}
}

func TestPrediction_PanicReleasesLoading(t *testing.T) {
	f := newFetcher()
	f.predPanic = true

	p, err := Open(context.Background(), f, Request{})
	if err != nil {
		t.Fatal(err)
	}
	p.RequestPrediction(context.Background())
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Aggregator().PredictionLoading() {
		t.Error("prediction still loading after panic")
	}
	if p.View().Prediction != nil {
		t.Error("expected prediction absent")
	}
}

func TestPrediction_DomainFailure(t *testing.T) {
	f := newFetcher()
	f.prediction = &models.PredictionResult{Success: false, Error: "not enough history"}

	p, err := Open(context.Background(), f, Request{})
	if err != nil {
		t.Fatal(err)
	}
	p.RequestPrediction(context.Background())
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.View().Prediction != nil || p.View().PredictionLoading {
		t.Errorf("view = %+v", p.View())
	}
}

func TestWait_ContextExpiry(t *testing.T) {
	f := newFetcher()
	gate := make(chan struct{})
	f.yearsGate = map[int]chan struct{}{5: gate}

	p, err := Open(context.Background(), f, Request{})
	if err != nil {
		t.Fatal(err)
	}
	p.LookupYears(context.Background(), 5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait err = %v, want deadline exceeded", err)
	}
	if !p.Aggregator().Loading(compare.ChannelCustomYear) {
		t.Error("hung lookup should leave its channel loading")
	}

	close(gate)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_OutOfRangeIntentIgnored(t *testing.T) {
	f := newFetcher()
	query, _ := url.ParseQuery("years=500")

	p, err := Open(context.Background(), f, Request{Query: query})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Intent(); ok {
		t.Error("500 years should not be an intent")
	}
	if p.Metadata().Title != meta.DefaultTitle {
		t.Errorf("title = %q, want default", p.Metadata().Title)
	}

	p.Load(context.Background())
	if err := p.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if v := p.View(); v.CustomYear == nil || v.CustomYear.YearsAgo != DefaultYearsAgo {
		t.Errorf("custom year = %+v, want the default card", v.CustomYear)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.yearCalls) != 1 || f.yearCalls[0] != DefaultYearsAgo {
		t.Errorf("year lookups = %v, want only the default", f.yearCalls)
	}
}
