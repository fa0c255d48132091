package intent

import (
	"net/url"
	"testing"
)

func TestExtractYearsAgo(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"5年前の気温", 5, true},
		{"https://www.google.com/search?q=10年前の今日", 10, true},
		{"0年前 3年前", 3, true},
		{"年前", 0, false},
		{"10 年前", 0, false},
		{"1年後", 0, false},
		{"", 0, false},
		{"99999999999999999999年前", 0, false},
	}

	for _, tt := range tests {
		got, ok := ExtractYearsAgo(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractYearsAgo(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFromRequest(t *testing.T) {
	encodedReferrer := "https://www.google.com/search?q=" + url.QueryEscape("20年前の気温")

	tests := []struct {
		name       string
		query      string
		referrer   string
		want       int
		wantSource Source
		wantOK     bool
	}{
		{
			name:       "years param beats referrer",
			query:      "years=15",
			referrer:   "https://search.example/?q=10年前の気温",
			want:       15,
			wantSource: SourceParam,
			wantOK:     true,
		},
		{
			name:       "referrer only",
			referrer:   "5年前の気温",
			want:       5,
			wantSource: SourceReferrer,
			wantOK:     true,
		},
		{
			name:       "percent-encoded referrer",
			referrer:   encodedReferrer,
			want:       20,
			wantSource: SourceReferrer,
			wantOK:     true,
		},
		{
			name:       "q param replaces referrer",
			query:      "q=" + url.QueryEscape("30年前の東京"),
			referrer:   "5年前の気温",
			want:       30,
			wantSource: SourceKeyword,
			wantOK:     true,
		},
		{
			name:       "invalid years param falls back to text",
			query:      "years=abc",
			referrer:   "7年前",
			want:       7,
			wantSource: SourceReferrer,
			wantOK:     true,
		},
		{
			name:     "non-positive years param ignored",
			query:    "years=0",
			referrer: "https://example.com/",
			wantOK:   false,
		},
		{
			name:   "neither",
			wantOK: false,
		},
		{
			name:       "years param at the service limit",
			query:      "years=100",
			want:       100,
			wantSource: SourceParam,
			wantOK:     true,
		},
		{
			name:   "years param beyond the service limit",
			query:  "years=500",
			wantOK: false,
		},
		{
			name:     "out of range param does not fall back to text",
			query:    "years=101",
			referrer: "7年前",
			wantOK:   false,
		},
		{
			name:     "referrer beyond the service limit",
			referrer: "https://www.google.com/search?q=" + url.QueryEscape("500年前の気温"),
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := FromRequest(q, tt.referrer)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.YearsAgo != tt.want || got.Source != tt.wantSource {
				t.Errorf("got %+v, want %d from %q", got, tt.want, tt.wantSource)
			}
		})
	}
}
