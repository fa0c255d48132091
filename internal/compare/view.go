package compare

import (
	"fmt"

	"github.com/lox/weathercompare/internal/models"
)

type TodayCard struct {
	Label       string      `json:"label"`
	Date        string      `json:"date"`
	Condition   string      `json:"condition"`
	High        models.Temp `json:"high"`
	Low         models.Temp `json:"low"`
	Rain        string      `json:"rain"`
	Source      string      `json:"source"`
	IsYesterday bool        `json:"is_yesterday"`
}

// Card is one comparison against the baseline. Delta is nil when either
// temperature is missing or non-numeric.
type Card struct {
	Label     string      `json:"label"`
	YearsAgo  int         `json:"years_ago"`
	Date      string      `json:"date"`
	Temp      models.Temp `json:"temp"`
	Condition string      `json:"condition"`
	Source    string      `json:"source,omitempty"`
	Delta     *Delta      `json:"delta,omitempty"`
}

// WeekView is the daily series chosen for display.
type WeekView struct {
	Days      models.WeekSeries `json:"days"`
	Custom    bool              `json:"custom"` // true when a user-requested series won
	Weeks     int               `json:"weeks"`
	TotalDays int               `json:"total_days"`
}

// View is the merged view model rendered by the page.
type View struct {
	Today             TodayCard                `json:"today"`
	BaselineLabel     string                   `json:"baseline_label"` // what deltas are measured against
	History           []Card                   `json:"history"`
	CustomYear        *Card                    `json:"custom_year,omitempty"`
	Week              WeekView                 `json:"week"`
	Prediction        *models.PredictionResult `json:"prediction,omitempty"`
	PredictionLoading bool                     `json:"prediction_loading"`
	Similar           *models.SimilarDay       `json:"similar,omitempty"`
	HighestTemp       *float64                 `json:"highest_temp,omitempty"`
}

// WeekDisplayView returns the user-requested week series when present and
// non-empty, otherwise the baseline's default series, otherwise nothing.
func (a *Aggregator) WeekDisplayView() WeekView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.weekLocked()
}

func (a *Aggregator) weekLocked() WeekView {
	if cw := a.customWeek; cw != nil && len(cw.Days) > 0 {
		return WeekView{Days: cw.Days, Custom: true, Weeks: cw.Weeks, TotalDays: cw.TotalDays}
	}
	if a.baseline != nil && len(a.baseline.Week) > 0 {
		return WeekView{Days: a.baseline.Week, Weeks: 1, TotalDays: len(a.baseline.Week)}
	}
	return WeekView{Days: models.WeekSeries{}}
}

const DefaultWeekLabel = "過去 1週間分（7日分）"

// Label describes the span the series covers.
func (w WeekView) Label() string {
	if !w.Custom {
		return DefaultWeekLabel
	}
	weeks := w.Weeks
	if weeks <= 0 {
		weeks = 1
	}
	days := w.TotalDays
	if days <= 0 {
		days = weeks * 7
	}
	return fmt.Sprintf("過去 %d週間分（%d日分）", weeks, days)
}

// TodayLabel names the baseline day, marking yesterday's data as such.
func TodayLabel(b *models.BaselineSnapshot) string {
	if b == nil {
		return ""
	}
	if b.IsYesterdayData {
		return fmt.Sprintf("昨日 (%s)", b.Today.Date)
	}
	return fmt.Sprintf("今日 (%s)", b.Today.Date)
}

// View snapshots the merged state.
func (a *Aggregator) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := View{
		History:           []Card{},
		Week:              a.weekLocked(),
		PredictionLoading: a.sequence(ChannelPrediction).inFlight(),
		Prediction:        a.prediction,
	}

	if b := a.baseline; b != nil {
		v.Today = TodayCard{
			Label:       TodayLabel(b),
			Date:        b.Today.Date,
			Condition:   b.Today.Condition,
			High:        b.Today.High,
			Low:         b.Today.Low,
			Rain:        b.Today.Rain,
			Source:      b.Today.Source,
			IsYesterday: b.IsYesterdayData,
		}
		v.BaselineLabel = TodayLabel(b)
		for _, h := range b.History {
			v.History = append(v.History, Card{
				Label:     fmt.Sprintf("%d年前 (%s)", h.YearsAgo, h.Date),
				YearsAgo:  h.YearsAgo,
				Date:      h.Date,
				Temp:      h.Temp,
				Condition: h.Condition,
				Source:    h.Source,
				Delta:     a.compareLocked(h.Temp),
			})
		}
		v.Similar = b.Similar
		v.HighestTemp = b.HighestTemp
	}

	if cy := a.customYear; cy != nil {
		v.CustomYear = &Card{
			Label:     fmt.Sprintf("%d年前の気温", cy.YearsAgo),
			YearsAgo:  cy.YearsAgo,
			Date:      cy.Date,
			Temp:      cy.Temp,
			Condition: cy.Condition,
			Delta:     a.compareLocked(cy.Temp),
		}
	}

	return v
}
