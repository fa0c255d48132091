// Package theme picks the page colour scheme from today's weather and the
// local time of day.
package theme

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/weathercompare/internal/htmlutil"
	"github.com/lox/weathercompare/internal/models"
)

// Condition is a categorised weather state.
type Condition string

const (
	ConditionClearWarm    Condition = "clear_warm"
	ConditionClearCool    Condition = "clear_cool"
	ConditionPartlyCloudy Condition = "partly_cloudy"
	ConditionMostlyCloudy Condition = "mostly_cloudy"
	ConditionLightRain    Condition = "light_rain"
	ConditionHeavyRain    Condition = "heavy_rain"
	ConditionStorm        Condition = "storm"
	ConditionSnow         Condition = "snow"
	ConditionFog          Condition = "fog"
	ConditionHot          Condition = "hot"
	ConditionFrost        Condition = "frost"
)

// TimeOfDay is the lighting period.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeNight TimeOfDay = "night"
)

// GetTimeOfDay treats 06:00-18:00 as day.
func GetTimeOfDay(t time.Time) TimeOfDay {
	if h := t.Hour(); h >= 6 && h < 18 {
		return TimeDay
	}
	return TimeNight
}

// Thresholds follow the JMA day classes: 猛暑日 at 35°C and 冬日 below 0°C.
const (
	hotThreshold   = 35.0
	frostThreshold = 0.0
	warmThreshold  = 25.0
)

// Classify maps a JMA weather description and today's temperatures to a
// condition. Temperature extremes win over the description.
func Classify(description string, high, low models.Temp) Condition {
	text := htmlutil.SingleLine(description)

	if v, ok := high.Value(); ok && v >= hotThreshold {
		return ConditionHot
	}
	if v, ok := low.Value(); ok && v < frostThreshold {
		return ConditionFrost
	}

	switch {
	case strings.Contains(text, "雷"):
		return ConditionStorm
	case strings.Contains(text, "雪"):
		return ConditionSnow
	case strings.Contains(text, "大雨") || strings.Contains(text, "暴風雨"):
		return ConditionHeavyRain
	case strings.Contains(text, "雨"):
		return ConditionLightRain
	case strings.Contains(text, "霧"):
		return ConditionFog
	}

	cloudy := strings.Contains(text, "曇") || strings.Contains(text, "くもり")
	sunny := strings.Contains(text, "晴")
	switch {
	case cloudy && sunny:
		// The leading word dominates: 晴時々曇 is mostly sunny.
		if strings.Index(text, "晴") < firstIndex(text, "曇", "くもり") {
			return ConditionPartlyCloudy
		}
		return ConditionMostlyCloudy
	case cloudy:
		return ConditionMostlyCloudy
	}

	if v, ok := high.Value(); ok && v >= warmThreshold {
		return ConditionClearWarm
	}
	return ConditionClearCool
}

func firstIndex(s string, subs ...string) int {
	best := -1
	for _, sub := range subs {
		if i := strings.Index(s, sub); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

// Key combines a condition with time of day.
func Key(c Condition, tod TimeOfDay) string {
	return fmt.Sprintf("%s_%s", c, tod)
}
