package api

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/weathercompare/internal/imagegen"
	"github.com/lox/weathercompare/internal/session"
)

const (
	DefaultRenderTimeout = 5 * time.Second
	DefaultOGImageTTL    = 10 * time.Minute
)

// Backend is the weather service as seen by the HTTP surface.
type Backend interface {
	session.Fetcher
	Health(ctx context.Context) error
}

type Options struct {
	Port          string
	RenderTimeout time.Duration // upper bound on waiting for secondary lookups
	OGImageTTL    time.Duration
	SiteURL       string // public origin for absolute links; the request host when empty
}

type Server struct {
	backend       Backend
	port          string
	renderTimeout time.Duration
	siteURL       string
	tmpl          *template.Template
	ogCache       *imagegen.Cache
}

func NewServer(backend Backend, opts Options) *Server {
	if opts.Port == "" {
		opts.Port = "8080"
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = DefaultRenderTimeout
	}
	if opts.OGImageTTL <= 0 {
		opts.OGImageTTL = DefaultOGImageTTL
	}
	return &Server{
		backend:       backend,
		port:          opts.Port,
		renderTimeout: opts.RenderTimeout,
		siteURL:       strings.TrimSuffix(opts.SiteURL, "/"),
		tmpl:          newTemplates(),
		ogCache:       imagegen.NewCache(opts.OGImageTTL),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /og-image.png", s.handleOGImage)
	mux.HandleFunc("GET /partials/chart", s.handleChartPartial)
	mux.HandleFunc("GET /api/compare", s.handleAPICompare)
	mux.HandleFunc("GET /api/custom-year/{years}", s.handleAPICustomYear)
	mux.HandleFunc("GET /api/custom-week/{weeks}", s.handleAPICustomWeek)
	mux.HandleFunc("GET /api/prediction", s.handleAPIPrediction)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// openView opens a page view for r and runs load against it, waiting at most
// the render timeout. The lookups are cancelled once the wait ends, so
// whatever settled by then is what renders.
func (s *Server) openView(r *http.Request, load func(context.Context, *session.PageView)) (*session.PageView, error) {
	p, err := session.Open(r.Context(), s.backend, session.Request{
		Query:    r.URL.Query(),
		Referrer: r.Referer(),
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.renderTimeout)
	defer cancel()
	if load != nil {
		load(ctx, p)
	}
	if err := p.Wait(ctx); err != nil {
		log.Printf("api: page view %s rendered before all lookups settled: %v", p.ID, err)
	}
	return p, nil
}

// absoluteURL resolves path against the configured site URL, or against the
// scheme and host the request arrived on.
func (s *Server) absoluteURL(r *http.Request, path string) string {
	if s.siteURL != "" {
		return s.siteURL + path
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host + path
}

func loadPage(ctx context.Context, p *session.PageView) {
	p.Load(ctx)
}

// loadIntent fetches only the comparison the visitor asked for. The baseline
// history already covers the default year.
func loadIntent(ctx context.Context, p *session.PageView) {
	if in, ok := p.Intent(); ok {
		p.LookupYears(ctx, in.YearsAgo)
	}
}
