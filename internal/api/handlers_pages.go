package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lox/weathercompare/internal/chart"
	"github.com/lox/weathercompare/internal/meta"
	"github.com/lox/weathercompare/internal/models"
	"github.com/lox/weathercompare/internal/session"
	"github.com/lox/weathercompare/internal/theme"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, err := s.openView(r, loadPage)
	if err != nil {
		s.renderError(w, err)
		return
	}

	yearsAgo := session.DefaultYearsAgo
	ogURL := "/og-image.png"
	if in, ok := p.Intent(); ok {
		yearsAgo = in.YearsAgo
		ogURL += "?" + url.Values{"years": {strconv.Itoa(in.YearsAgo)}}.Encode()
	}

	view := p.View()
	data := IndexData{
		Meta:           p.Metadata(),
		StructuredData: meta.StructuredData(p.Aggregator().Baseline()),
		View:           view,
		Palette:        theme.For(view.Today.Condition, view.Today.High, view.Today.Low, time.Now()),
		WeekLabel:      view.Week.Label(),
		YearsAgo:       yearsAgo,
		MaxYearsAgo:    models.MaxYearsAgo,
		MaxWeeksAgo:    models.MaxWeeksAgo,
		OGImageURL:     s.absoluteURL(r, ogURL),
		ChartURL:       "/partials/chart",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("api: template error: %v", err)
	}
}

// handleChartPartial renders the week chart. ?weeks=N swaps in a custom series.
func (s *Server) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	weeks := 0
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := parseBounded("weeks", raw, models.MaxWeeksAgo)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		weeks = n
	}

	p, err := s.openView(r, func(ctx context.Context, p *session.PageView) {
		if weeks > 0 {
			p.LookupWeeks(ctx, weeks)
		}
	})
	if err != nil {
		s.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderWeek(w, p.View().Week, p.Aggregator().Baseline()); err != nil {
		log.Printf("api: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{Status: "ok", Upstream: "ok"}
	if err := s.backend.Health(ctx); err != nil {
		// This process is alive either way; only report the upstream.
		health.Status = "degraded"
		health.Upstream = "error"
		health.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	data := ErrorData{
		Title:   "天気データを取得できませんでした",
		Message: "しばらくしてから再度お試しください。",
	}
	if err := s.tmpl.ExecuteTemplate(w, "error.html", data); err != nil {
		log.Printf("api: template error: %v", err)
	}
}

// parseBounded parses a positive integer parameter no greater than max.
func parseBounded(name, raw string, max int) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("%s must be between 1 and %d", name, max)
	}
	return n, nil
}
