package theme

import (
	"testing"
	"time"

	"github.com/lox/weathercompare/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		high, low   models.Temp
		want        Condition
	}{
		{"hot day overrides description", "雨", "36.1", "25.0", ConditionHot},
		{"frost overrides description", "晴れ", "8.0", "-1.5", ConditionFrost},
		{"thunder", "曇り 夕方 から 雷雨", "28.0", "20.0", ConditionStorm},
		{"snow", "雪 時々 曇", "3.0", "0.5", ConditionSnow},
		{"heavy rain", "大雨", "20.0", "15.0", ConditionHeavyRain},
		{"rain", "曇り 時々 雨", "22.0", "14.0", ConditionLightRain},
		{"fog", "霧", "18.0", "12.0", ConditionFog},
		{"sunny then cloudy", "晴れ 時々 曇り", "22.0", "14.0", ConditionPartlyCloudy},
		{"cloudy then sunny", "くもり 後 晴れ", "22.0", "14.0", ConditionMostlyCloudy},
		{"cloudy", "曇", "22.0", "14.0", ConditionMostlyCloudy},
		{"clear warm", "晴れ", "28.5", "18.0", ConditionClearWarm},
		{"clear cool", "晴れ", "16.0", "8.0", ConditionClearCool},
		{"html description", "晴<br>時々曇", "22.0", "", ConditionPartlyCloudy},
		{"missing temperatures", "", "", "", ConditionClearCool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.description, tt.high, tt.low); got != tt.want {
				t.Errorf("Classify(%q, %q, %q) = %s, want %s", tt.description, tt.high, tt.low, got, tt.want)
			}
		})
	}
}

func TestGetTimeOfDay(t *testing.T) {
	for hour, want := range map[int]TimeOfDay{5: TimeNight, 6: TimeDay, 12: TimeDay, 17: TimeDay, 18: TimeNight, 23: TimeNight} {
		if got := GetTimeOfDay(time.Date(2026, 10, 19, hour, 0, 0, 0, time.UTC)); got != want {
			t.Errorf("hour %d = %s, want %s", hour, got, want)
		}
	}
}

func TestGetPalette(t *testing.T) {
	if got := GetPalette(ConditionStorm, TimeDay); got != palettes["storm_day"] {
		t.Errorf("storm day = %+v", got)
	}
	if got := GetPalette(ConditionFog, TimeNight); got != nightBase {
		t.Errorf("fog night should fall back to the night base, got %+v", got)
	}
	if got := GetPalette(Condition("unknown"), TimeDay); got != DefaultPalette {
		t.Errorf("unknown day = %+v", got)
	}
}

func TestFor_UsesTokyoTime(t *testing.T) {
	// 03:00 UTC is noon in Tokyo.
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	if got := For("晴れ", "28.5", "18.0", now); got != palettes["clear_warm_day"] {
		t.Errorf("For = %+v", got)
	}
}
