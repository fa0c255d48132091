package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lox/weathercompare/internal/models"
	"github.com/lox/weathercompare/internal/session"
)

func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	p, err := s.openView(r, loadPage)
	if err != nil {
		writeBaselineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Meta: p.Metadata(), View: p.View()})
}

func (s *Server) handleAPICustomYear(w http.ResponseWriter, r *http.Request) {
	years, err := parseBounded("years", r.PathValue("years"), models.MaxYearsAgo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	p, err := s.openView(r, func(ctx context.Context, p *session.PageView) {
		p.LookupYears(ctx, years)
	})
	if err != nil {
		writeBaselineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CustomYearResponse{YearsAgo: years, Card: p.View().CustomYear})
}

func (s *Server) handleAPICustomWeek(w http.ResponseWriter, r *http.Request) {
	weeks, err := parseBounded("weeks", r.PathValue("weeks"), models.MaxWeeksAgo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	p, err := s.openView(r, func(ctx context.Context, p *session.PageView) {
		p.LookupWeeks(ctx, weeks)
	})
	if err != nil {
		writeBaselineError(w, err)
		return
	}
	week := p.View().Week
	writeJSON(w, http.StatusOK, CustomWeekResponse{Weeks: weeks, Label: week.Label(), Week: week})
}

func (s *Server) handleAPIPrediction(w http.ResponseWriter, r *http.Request) {
	p, err := s.openView(r, func(ctx context.Context, p *session.PageView) {
		p.RequestPrediction(ctx)
	})
	if err != nil {
		writeBaselineError(w, err)
		return
	}
	view := p.View()
	writeJSON(w, http.StatusOK, PredictionResponse{
		Loading:    view.PredictionLoading,
		Prediction: view.Prediction,
		Months:     view.Prediction.Months(),
	})
}

func writeBaselineError(w http.ResponseWriter, err error) {
	msg := "weather data unavailable"
	var be *session.BaselineError
	if !errors.As(err, &be) {
		msg = err.Error()
	}
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}
