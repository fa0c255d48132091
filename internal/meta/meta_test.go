package meta

import (
	"strings"
	"testing"

	"github.com/lox/weathercompare/internal/models"
)

func testBaseline() *models.BaselineSnapshot {
	return &models.BaselineSnapshot{
		Today: models.TodayPoint{Date: "2026-10-19", Condition: "晴<br>時々曇", High: "28.5"},
		History: []models.HistoricalPoint{
			{YearsAgo: 1, Date: "2025-10-19", Temp: "24.0"},
			{YearsAgo: 10, Date: "2016-10-19", Temp: ""},
			{YearsAgo: 40, Date: "1986-10-19", Temp: "19.4"},
		},
	}
}

func TestCompute(t *testing.T) {
	b := testBaseline()

	tests := []struct {
		name     string
		yearsAgo int
		ok       bool
		want     Metadata
	}{
		{
			name: "no intent",
			want: Metadata{
				Title:       DefaultTitle,
				Description: "今日（2026-10-19）の天気は晴 時々曇、最高気温は28.5°C。",
			},
		},
		{
			name:     "inferred years",
			yearsAgo: 15,
			ok:       true,
			want: Metadata{
				Title:       "15年前の気温 | 天気比較",
				Description: "15年前の東京の気温データを今日と比較。",
			},
		},
		{
			name:     "value without ok is ignored",
			yearsAgo: 15,
			want: Metadata{
				Title:       DefaultTitle,
				Description: "今日（2026-10-19）の天気は晴 時々曇、最高気温は28.5°C。",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(b, tt.yearsAgo, tt.ok)
			if got.Title != tt.want.Title {
				t.Errorf("Title = %q, want %q", got.Title, tt.want.Title)
			}
			if got.Description != tt.want.Description {
				t.Errorf("Description = %q, want %q", got.Description, tt.want.Description)
			}
			if got.OGTitle != got.Title || got.OGDescription != got.Description {
				t.Errorf("OG tags do not mirror title/description: %+v", got)
			}
		})
	}
}

func TestCompute_AbsentHigh(t *testing.T) {
	b := testBaseline()
	b.Today.High = ""
	got := Compute(b, 0, false)
	if !strings.Contains(got.Description, "最高気温は--°C") {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestStructuredData(t *testing.T) {
	sd := StructuredData(testBaseline())
	if sd["@type"] != "WebPage" {
		t.Errorf("@type = %v", sd["@type"])
	}
	desc, _ := sd["description"].(string)
	if !strings.Contains(desc, "1年前（2025-10-19）は24.0°C") {
		t.Errorf("description = %q", desc)
	}
	if !strings.Contains(desc, "10年前（2016-10-19）は--°C") {
		t.Errorf("description = %q", desc)
	}
	entity := sd["mainEntity"].(map[string]any)
	if entity["temporalCoverage"] != "1986-10-19/2026-10-19" {
		t.Errorf("temporalCoverage = %v", entity["temporalCoverage"])
	}

	if StructuredData(nil) != nil {
		t.Error("expected nil for nil baseline")
	}
}

func TestPublisher_OncePerBaselineChange(t *testing.T) {
	var pushed []Metadata
	p := NewPublisher(SinkFunc(func(m Metadata) { pushed = append(pushed, m) }))

	b := testBaseline()
	p.Publish(b, 0, false)
	p.Publish(b, 0, false)
	if len(pushed) != 1 {
		t.Fatalf("pushes = %d, want 1", len(pushed))
	}

	if _, sent := p.Publish(b, 5, true); !sent {
		t.Error("intent change should republish")
	}

	changed := testBaseline()
	changed.Today.Date = "2026-10-20"
	p.Publish(changed, 5, true)
	p.Publish(changed, 5, true)

	if len(pushed) != 3 {
		t.Fatalf("pushes = %d, want 3", len(pushed))
	}
	if pushed[1].Title != "5年前の気温 | 天気比較" {
		t.Errorf("second push title = %q", pushed[1].Title)
	}
}
