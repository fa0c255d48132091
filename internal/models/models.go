package models

const (
	MaxYearsAgo = 100
	MaxWeeksAgo = 52
	MaxWeekDays = MaxWeeksAgo * 7
)

// HistoricalOffsets are the fixed comparison points carried by every baseline.
var HistoricalOffsets = []int{1, 10, 20, 30, 40}

type TodayPoint struct {
	Date      string `json:"date"`
	Condition string `json:"condition"`
	High      Temp   `json:"high"`
	Low       Temp   `json:"low"`
	Rain      string `json:"rain"` // precipitation chance, e.g. "20%"
	Source    string `json:"source"`
}

type HistoricalPoint struct {
	YearsAgo  int    `json:"years_ago"`
	Date      string `json:"date"`
	Temp      Temp   `json:"temp"`
	Condition string `json:"condition"`
	Source    string `json:"source"`
}

type WeekDay struct {
	DaysAgo   int    `json:"days_ago"`
	Date      string `json:"date"`
	Temp      Temp   `json:"temp"`
	Condition string `json:"weather"`
	Source    string `json:"source"`
}

// WeekSeries is ordered most recent first.
type WeekSeries []WeekDay

type SimilarDay struct {
	Date      string `json:"date"`
	Temp      Temp   `json:"temp"`
	Condition string `json:"condition"`
}

// BaselineSnapshot is today's weather plus the fixed historical comparison
// points. When IsYesterdayData is set, Today holds yesterday's values because
// today's forecast was unavailable; the historical points are unaffected.
type BaselineSnapshot struct {
	Today           TodayPoint        `json:"today"`
	IsYesterdayData bool              `json:"is_yesterday_data"`
	History         []HistoricalPoint `json:"history"`
	Week            WeekSeries        `json:"week,omitempty"`
	Similar         *SimilarDay       `json:"similar,omitempty"`
	HighestTemp     *float64          `json:"highest_temp,omitempty"` // current month's observed max
}

// HighTemp returns the numeric high temperature used as the comparison base.
func (b *BaselineSnapshot) HighTemp() (float64, bool) {
	if b == nil {
		return 0, false
	}
	return b.Today.High.Value()
}

type CustomYearLookup struct {
	YearsAgo  int    `json:"years_ago"`
	Date      string `json:"date"`
	Temp      Temp   `json:"temp"`
	Condition string `json:"weather"`
}

type CustomWeekLookup struct {
	Weeks     int        `json:"weeks"`
	TotalDays int        `json:"total_days"`
	Days      WeekSeries `json:"week_data"`
}

type MonthPrediction struct {
	Month         int     `json:"month"`
	Trend         string  `json:"trend"`
	PredictedTemp float64 `json:"predicted_temp"`
	PastAvgTemp   float64 `json:"past_avg_temp"`
	TempDiff      float64 `json:"temp_diff"`  // predicted minus past average
	Confidence    float64 `json:"confidence"` // 0-100
}

// PredictionResult is either wholly usable (Success) or a failure whose
// numeric fields must not be read.
type PredictionResult struct {
	Success       bool             `json:"success"`
	CurrentMonth  *MonthPrediction `json:"current_month,omitempty"`
	NextMonth     *MonthPrediction `json:"next_month,omitempty"`
	NextNextMonth *MonthPrediction `json:"next_next_month,omitempty"`
	DataSource    string           `json:"data_source"`
	Error         string           `json:"error,omitempty"`
}

// Months returns the present month predictions in calendar order.
func (p *PredictionResult) Months() []MonthPrediction {
	if p == nil || !p.Success {
		return nil
	}
	var out []MonthPrediction
	for _, m := range []*MonthPrediction{p.CurrentMonth, p.NextMonth, p.NextNextMonth} {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}
