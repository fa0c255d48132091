package theme

import (
	"time"

	"github.com/lox/weathercompare/internal/models"
)

// Palette defines the color scheme for a weather condition + time of day.
type Palette struct {
	Background string
	Card       string
	CardBorder string
	Text       string
	TextMuted  string
	Warmer     string // delta colour when today is warmer
	Colder     string // delta colour when today is colder
}

// DefaultPalette is the fallback light theme.
var DefaultPalette = Palette{
	Background: "#f7f7f9",
	Card:       "#ffffff",
	CardBorder: "#dddddd",
	Text:       "#222222",
	TextMuted:  "#888888",
	Warmer:     "#c62828",
	Colder:     "#1565c0",
}

var nightBase = Palette{
	Background: "#10121c",
	Card:       "#1a1d2e",
	CardBorder: "#2b2f4a",
	Text:       "#eeeeee",
	TextMuted:  "#8a8fa8",
	Warmer:     "#ff8a65",
	Colder:     "#64b5f6",
}

// palettes maps condition+time keys to schemes. Missing keys fall back to
// the default for the time of day.
var palettes = map[string]Palette{
	"clear_warm_day":    {Background: "#fff6e8", Card: "#ffffff", CardBorder: "#f0dcc0", Text: "#2a2520", TextMuted: "#8a7660", Warmer: "#d84315", Colder: "#1565c0"},
	"clear_cool_day":    {Background: "#eef6ff", Card: "#ffffff", CardBorder: "#cfe0f5", Text: "#1d2733", TextMuted: "#6a7b8f", Warmer: "#c62828", Colder: "#0d47a1"},
	"partly_cloudy_day": {Background: "#f1f4f8", Card: "#ffffff", CardBorder: "#d8dee8", Text: "#232a33", TextMuted: "#76808c", Warmer: "#c62828", Colder: "#1565c0"},
	"mostly_cloudy_day": {Background: "#e6e8eb", Card: "#f7f8fa", CardBorder: "#c9cdd3", Text: "#2b2f36", TextMuted: "#6f7680", Warmer: "#b23a3a", Colder: "#2f5f9e"},
	"light_rain_day":    {Background: "#e3eaf0", Card: "#f5f8fb", CardBorder: "#c3d0dc", Text: "#1f2a35", TextMuted: "#66788a", Warmer: "#b23a3a", Colder: "#1e5aa8"},
	"heavy_rain_day":    {Background: "#cfd8e0", Card: "#eef2f6", CardBorder: "#a9b8c6", Text: "#17212b", TextMuted: "#556677", Warmer: "#a12b2b", Colder: "#164a8c"},
	"storm_day":         {Background: "#3a3f4b", Card: "#4a5060", CardBorder: "#5d6475", Text: "#f0f0f0", TextMuted: "#b0b6c3", Warmer: "#ff8a65", Colder: "#90caf9"},
	"snow_day":          {Background: "#f4f8fc", Card: "#ffffff", CardBorder: "#dce6f0", Text: "#1d2733", TextMuted: "#7d8ea0", Warmer: "#c62828", Colder: "#0d47a1"},
	"fog_day":           {Background: "#eceeef", Card: "#f8f9f9", CardBorder: "#d5d9db", Text: "#2d3236", TextMuted: "#80878c", Warmer: "#b23a3a", Colder: "#2f5f9e"},
	"hot_day":           {Background: "#fff0e0", Card: "#fffaf4", CardBorder: "#f5c99a", Text: "#2e1d10", TextMuted: "#94704f", Warmer: "#e64a19", Colder: "#1565c0"},
	"frost_day":         {Background: "#e8f1fa", Card: "#f8fbff", CardBorder: "#c5d8ec", Text: "#15202b", TextMuted: "#6b7f94", Warmer: "#c62828", Colder: "#0b3d91"},

	"storm_night": {Background: "#0b0c12", Card: "#171a24", CardBorder: "#2a2e3d", Text: "#e6e6e6", TextMuted: "#7c8194", Warmer: "#ff8a65", Colder: "#64b5f6"},
	"hot_night":   {Background: "#1c120c", Card: "#2a1d15", CardBorder: "#47301f", Text: "#fff0e0", TextMuted: "#a58b73", Warmer: "#ff7043", Colder: "#64b5f6"},
	"snow_night":  {Background: "#141a24", Card: "#1f2735", CardBorder: "#33405a", Text: "#f2f6fb", TextMuted: "#94a3b8", Warmer: "#ff8a65", Colder: "#90caf9"},
}

// GetPalette returns the scheme for a condition at a time of day.
func GetPalette(c Condition, tod TimeOfDay) Palette {
	if p, ok := palettes[Key(c, tod)]; ok {
		return p
	}
	if tod == TimeNight {
		return nightBase
	}
	return DefaultPalette
}

// Tokyo is the display timezone. It falls back to a fixed +9 offset when the
// tz database is unavailable.
var Tokyo = loadTokyo()

func loadTokyo() *time.Location {
	if loc, err := time.LoadLocation("Asia/Tokyo"); err == nil {
		return loc
	}
	return time.FixedZone("JST", 9*60*60)
}

// For picks the palette for today's weather at instant now.
func For(description string, high, low models.Temp, now time.Time) Palette {
	return GetPalette(Classify(description, high, low), GetTimeOfDay(now.In(Tokyo)))
}
