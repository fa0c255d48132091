package api

import (
	"github.com/lox/weathercompare/internal/compare"
	"github.com/lox/weathercompare/internal/meta"
	"github.com/lox/weathercompare/internal/models"
	"github.com/lox/weathercompare/internal/theme"
)

// IndexData holds data for the comparison page.
type IndexData struct {
	Meta           meta.Metadata
	StructuredData map[string]any
	View           compare.View
	Palette        theme.Palette
	WeekLabel      string
	YearsAgo       int // the year shown in the custom card input
	MaxYearsAgo    int
	MaxWeeksAgo    int
	OGImageURL     string
	ChartURL       string
}

// ErrorData holds data for the error page.
type ErrorData struct {
	Title   string
	Message string
}

// CompareResponse is the JSON form of a fully loaded page view.
type CompareResponse struct {
	Meta meta.Metadata `json:"meta"`
	View compare.View  `json:"view"`
}

type CustomYearResponse struct {
	YearsAgo int           `json:"years_ago"`
	Card     *compare.Card `json:"card"` // null when the lookup failed
}

type CustomWeekResponse struct {
	Weeks int              `json:"weeks"`
	Label string           `json:"label"`
	Week  compare.WeekView `json:"week"`
}

type PredictionResponse struct {
	Loading    bool                     `json:"loading"`
	Prediction *models.PredictionResult `json:"prediction"`
	Months     []models.MonthPrediction `json:"months"`
}

type HealthStatus struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Error    string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
