package remote

import (
	"errors"

	"github.com/lox/weathercompare/internal/models"
)

// weatherDataResponse is the flat /weather-data/ payload.
type weatherDataResponse struct {
	TodayDate       string      `json:"today_date"`
	TodayWeather    string      `json:"today_weather"`
	TodayHighTemp   models.Temp `json:"today_high_temp"`
	TodayLowTemp    models.Temp `json:"today_low_temp"`
	TodayRain       string      `json:"today_rain"`
	TodaySource     string      `json:"today_source"`
	IsYesterdayData bool        `json:"is_yesterday_data"`

	LastYearDate    string      `json:"last_year_date"`
	LastYearTemp    models.Temp `json:"last_year_temp"`
	LastYearWeather string      `json:"last_year_weather_desc"`
	LastYearSource  string      `json:"last_year_source"`

	TenYearsDate    string      `json:"ten_years_date"`
	TenYearsTemp    models.Temp `json:"ten_years_temp"`
	TenYearsWeather string      `json:"ten_years_weather_desc"`
	TenYearsSource  string      `json:"ten_years_source"`

	TwentyYearsDate    string      `json:"twenty_years_date"`
	TwentyYearsTemp    models.Temp `json:"twenty_years_temp"`
	TwentyYearsWeather string      `json:"twenty_years_weather_desc"`
	TwentyYearsSource  string      `json:"twenty_years_source"`

	ThirtyYearsDate    string      `json:"thirty_years_date"`
	ThirtyYearsTemp    models.Temp `json:"thirty_years_temp"`
	ThirtyYearsWeather string      `json:"thirty_years_weather_desc"`
	ThirtyYearsSource  string      `json:"thirty_years_source"`

	FortyYearsDate    string      `json:"forty_years_date"`
	FortyYearsTemp    models.Temp `json:"forty_years_temp"`
	FortyYearsWeather string      `json:"forty_years_weather_desc"`
	FortyYearsSource  string      `json:"forty_years_source"`

	// [date, temp, weather]; every element may be null.
	SimilarWeatherData *[3]models.Temp  `json:"similar_weather_data"`
	HighestTemp        models.Temp      `json:"highest_temp"`
	WeekData           []models.WeekDay `json:"week_data"`
}

func (r *weatherDataResponse) toSnapshot() (*models.BaselineSnapshot, error) {
	if r.TodayDate == "" {
		return nil, errors.New("missing today_date")
	}

	snap := &models.BaselineSnapshot{
		Today: models.TodayPoint{
			Date:      r.TodayDate,
			Condition: r.TodayWeather,
			High:      r.TodayHighTemp,
			Low:       r.TodayLowTemp,
			Rain:      r.TodayRain,
			Source:    r.TodaySource,
		},
		IsYesterdayData: r.IsYesterdayData,
		History: []models.HistoricalPoint{
			{YearsAgo: 1, Date: r.LastYearDate, Temp: r.LastYearTemp, Condition: r.LastYearWeather, Source: r.LastYearSource},
			{YearsAgo: 10, Date: r.TenYearsDate, Temp: r.TenYearsTemp, Condition: r.TenYearsWeather, Source: r.TenYearsSource},
			{YearsAgo: 20, Date: r.TwentyYearsDate, Temp: r.TwentyYearsTemp, Condition: r.TwentyYearsWeather, Source: r.TwentyYearsSource},
			{YearsAgo: 30, Date: r.ThirtyYearsDate, Temp: r.ThirtyYearsTemp, Condition: r.ThirtyYearsWeather, Source: r.ThirtyYearsSource},
			{YearsAgo: 40, Date: r.FortyYearsDate, Temp: r.FortyYearsTemp, Condition: r.FortyYearsWeather, Source: r.FortyYearsSource},
		},
		Week: capSeries(r.WeekData),
	}

	if s := r.SimilarWeatherData; s != nil {
		snap.Similar = &models.SimilarDay{
			Date:      string(s[0]),
			Temp:      s[1],
			Condition: string(s[2]),
		}
	}
	if v, ok := r.HighestTemp.Value(); ok {
		snap.HighestTemp = &v
	}

	return snap, nil
}

func capSeries(days []models.WeekDay) models.WeekSeries {
	if len(days) > models.MaxWeekDays {
		days = days[:models.MaxWeekDays]
	}
	return models.WeekSeries(days)
}
