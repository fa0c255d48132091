package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"

	"github.com/lox/weathercompare/internal/httputil"
	"github.com/lox/weathercompare/internal/metrics"
	"github.com/lox/weathercompare/internal/models"
)

const DefaultBaseURL = "http://localhost:8000"

const (
	EndpointBaseline   = "weather-data"
	EndpointCustomYear = "custom-year-weather"
	EndpointCustomWeek = "custom-week-weather"
	EndpointPrediction = "predict-weather"
	EndpointHealth     = "health"
)

const baselineCacheKey = "baseline"

type Config struct {
	BaseURL     string
	HTTPClient  *http.Client  // optional; httputil.NewClient(Timeout) when nil
	Timeout     time.Duration // per attempt
	BaselineTTL time.Duration // zero disables baseline caching

	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration
	MaxRetries           int
}

// Client talks to the weather comparison service. Every lookup is a GET
// returning JSON; none of them mutate anything on the service.
type Client struct {
	baseURL  string
	client   *http.Client
	breakers map[string]*gobreaker.CircuitBreaker // one per endpoint
	baseline *cache.Cache
	validate *validator.Validate

	retryInitial    time.Duration
	retryMaxElapsed time.Duration
	maxRetries      int
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = httputil.NewClient(cfg.Timeout)
	}

	c := &Client{
		baseURL:         baseURL,
		client:          hc,
		breakers:        make(map[string]*gobreaker.CircuitBreaker),
		validate:        validator.New(),
		retryInitial:    cfg.RetryInitialInterval,
		retryMaxElapsed: cfg.RetryMaxElapsed,
		maxRetries:      cfg.MaxRetries,
	}
	if c.retryInitial <= 0 {
		c.retryInitial = 500 * time.Millisecond
	}
	if c.retryMaxElapsed <= 0 {
		c.retryMaxElapsed = 20 * time.Second
	}
	for _, endpoint := range []string{EndpointBaseline, EndpointCustomYear, EndpointCustomWeek, EndpointPrediction, EndpointHealth} {
		c.breakers[endpoint] = newBreaker(endpoint)
	}
	if cfg.BaselineTTL > 0 {
		c.baseline = cache.New(cfg.BaselineTTL, 2*cfg.BaselineTTL)
	}
	return c
}

// newBreaker trips after five consecutive server-side failures. A failing
// endpoint never opens the circuit for the others, and client errors (4xx
// other than 429) are the caller's fault, so they count as successes.
func newBreaker(endpoint string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather-service:" + endpoint,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return !retryableStatus(se.code)
			}
			return err == nil
		},
	})
}

// BaseURL returns the service root requests are made against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type yearsRequest struct {
	Years int `validate:"min=1,max=100"`
}

type weeksRequest struct {
	Weeks int `validate:"min=1,max=52"`
}

// FetchBaseline returns today's snapshot with its historical comparison points.
func (c *Client) FetchBaseline(ctx context.Context) (*models.BaselineSnapshot, error) {
	if c.baseline != nil {
		if v, ok := c.baseline.Get(baselineCacheKey); ok {
			metrics.BaselineCacheHits.Inc()
			snap := v.(models.BaselineSnapshot)
			return &snap, nil
		}
	}

	body, err := c.get(ctx, EndpointBaseline, "/weather-data/", true)
	if err != nil {
		return nil, err
	}

	var data weatherDataResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Endpoint: EndpointBaseline, Err: err}
	}
	snap, err := data.toSnapshot()
	if err != nil {
		return nil, &ParseError{Endpoint: EndpointBaseline, Err: err}
	}

	if c.baseline != nil {
		c.baseline.Set(baselineCacheKey, *snap, cache.DefaultExpiration)
	}
	return snap, nil
}

// FetchYearsAgo returns the weather on today's date n years ago (1..100).
func (c *Client) FetchYearsAgo(ctx context.Context, n int) (*models.CustomYearLookup, error) {
	if err := c.validate.Struct(yearsRequest{Years: n}); err != nil {
		return nil, &RangeError{Param: "years", Value: n, Min: 1, Max: models.MaxYearsAgo}
	}

	body, err := c.get(ctx, EndpointCustomYear, "/custom-year-weather/"+strconv.Itoa(n)+"/", true)
	if err != nil {
		return nil, err
	}

	var lookup models.CustomYearLookup
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, &ParseError{Endpoint: EndpointCustomYear, Err: err}
	}
	if lookup.YearsAgo == 0 {
		return nil, &ParseError{Endpoint: EndpointCustomYear, Err: errors.New("missing years_ago")}
	}
	return &lookup, nil
}

// FetchWeeksAgo returns the daily series covering the last n weeks (1..52).
func (c *Client) FetchWeeksAgo(ctx context.Context, n int) (*models.CustomWeekLookup, error) {
	if err := c.validate.Struct(weeksRequest{Weeks: n}); err != nil {
		return nil, &RangeError{Param: "weeks", Value: n, Min: 1, Max: models.MaxWeeksAgo}
	}

	body, err := c.get(ctx, EndpointCustomWeek, "/custom-week-weather/"+strconv.Itoa(n)+"/", true)
	if err != nil {
		return nil, err
	}

	var lookup models.CustomWeekLookup
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, &ParseError{Endpoint: EndpointCustomWeek, Err: err}
	}
	if lookup.Weeks == 0 {
		return nil, &ParseError{Endpoint: EndpointCustomWeek, Err: errors.New("missing weeks")}
	}
	lookup.Days = capSeries(lookup.Days)
	return &lookup, nil
}

// FetchPrediction returns the monthly trend prediction. A result with
// Success=false is returned without error; callers decide how to treat it.
func (c *Client) FetchPrediction(ctx context.Context) (*models.PredictionResult, error) {
	body, err := c.get(ctx, EndpointPrediction, "/predict-weather/", true)
	if err != nil {
		return nil, err
	}

	var result models.PredictionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ParseError{Endpoint: EndpointPrediction, Err: err}
	}
	return &result, nil
}

// Health pings the liveness endpoint once, without retries.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, EndpointHealth, "/health/", false)
	return err
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status %d", e.code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func (c *Client) get(ctx context.Context, endpoint, path string, retry bool) ([]byte, error) {
	url := c.baseURL + path
	start := time.Now()
	defer func() {
		metrics.RemoteLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", httputil.UserAgent)
		req.Header.Set("Accept", "application/json")

		result, err := c.breakers[endpoint].Execute(func() (interface{}, error) {
			resp, err := c.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("read body: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, &statusError{code: resp.StatusCode, body: truncate(string(b), 200)}
			}
			return b, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			var se *statusError
			if errors.As(err, &se) && !retryableStatus(se.code) {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}

		body = result.([]byte)
		return nil
	}

	var err error
	if retry {
		err = backoff.Retry(operation, c.newBackOff(ctx))
	} else {
		err = operation()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
	}
	if err != nil {
		status := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "circuit_open"
		}
		metrics.RemoteCallsTotal.WithLabelValues(endpoint, status).Inc()

		netErr := &NetworkError{Endpoint: endpoint, Err: err}
		var se *statusError
		if errors.As(err, &se) {
			netErr.StatusCode = se.code
		}
		return nil, netErr
	}

	metrics.RemoteCallsTotal.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxElapsedTime = c.retryMaxElapsed
	bo.Reset()
	var b backoff.BackOff = bo
	if c.maxRetries > 0 {
		b = backoff.WithMaxRetries(b, uint64(c.maxRetries))
	}
	return backoff.WithContext(b, ctx)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
