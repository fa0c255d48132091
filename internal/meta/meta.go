// Package meta derives the page title and description from the baseline and
// the visitor's inferred intent, and pushes them to whatever renders the
// document head.
package meta

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lox/weathercompare/internal/htmlutil"
	"github.com/lox/weathercompare/internal/models"
)

const (
	DefaultTitle = "1年前の気温は？ - 今日と過去の気温を比較"
	SiteName     = "天気比較"
	PlaceName    = "東京"
)

type Metadata struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	OGTitle       string `json:"og_title"`
	OGDescription string `json:"og_description"`
}

// Compute is a pure function of the baseline and the inferred years-ago value.
func Compute(b *models.BaselineSnapshot, yearsAgo int, ok bool) Metadata {
	var m Metadata
	if ok && yearsAgo > 0 {
		m.Title = fmt.Sprintf("%d年前の気温 | %s", yearsAgo, SiteName)
		m.Description = fmt.Sprintf("%d年前の%sの気温データを今日と比較。", yearsAgo, PlaceName)
	} else {
		m.Title = DefaultTitle
		m.Description = todayDescription(b)
	}
	m.OGTitle = m.Title
	m.OGDescription = m.Description
	return m
}

func todayDescription(b *models.BaselineSnapshot) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("今日（%s）の天気は%s、最高気温は%s°C。",
		b.Today.Date, htmlutil.SingleLine(b.Today.Condition), tempText(b.Today.High))
}

func tempText(t models.Temp) string {
	if !t.Valid() {
		return "--"
	}
	return strings.TrimSpace(string(t))
}

// StructuredData returns the schema.org JSON-LD object describing the page.
func StructuredData(b *models.BaselineSnapshot) map[string]any {
	if b == nil {
		return nil
	}

	description := todayDescription(b)
	earliest := b.Today.Date
	for _, h := range b.History {
		switch h.YearsAgo {
		case 1, 10:
			description += fmt.Sprintf("%d年前（%s）は%s°Cでした。", h.YearsAgo, h.Date, tempText(h.Temp))
		}
		if h.Date != "" && h.Date < earliest {
			earliest = h.Date
		}
	}

	return map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebPage",
		"name":        DefaultTitle,
		"description": description,
		"mainEntity": map[string]any{
			"@type":            "Dataset",
			"name":             PlaceName + "の気温比較データ",
			"description":      "今日と過去の気温データの比較。1年前の気温、10年前の気温、1週間前の気温など。",
			"temporalCoverage": earliest + "/" + b.Today.Date,
			"spatialCoverage": map[string]any{
				"@type": "Place",
				"name":  PlaceName,
			},
		},
	}
}

// Sink receives computed metadata; it owns the actual document mutation.
type Sink interface {
	PublishMetadata(Metadata)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Metadata)

func (f SinkFunc) PublishMetadata(m Metadata) { f(m) }

type publishKey struct {
	date      string
	yesterday bool
	high      models.Temp
	condition string
	yearsAgo  int
}

// Publisher pushes metadata to its sink exactly once per distinct baseline
// and intent; repeated calls with the same inputs are no-ops.
type Publisher struct {
	mu        sync.Mutex
	sink      Sink
	last      publishKey
	published bool
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Publish computes metadata and pushes it if the inputs changed. It returns
// the computed metadata and whether the sink was called.
func (p *Publisher) Publish(b *models.BaselineSnapshot, yearsAgo int, ok bool) (Metadata, bool) {
	m := Compute(b, yearsAgo, ok)

	key := publishKey{yearsAgo: -1}
	if ok {
		key.yearsAgo = yearsAgo
	}
	if b != nil {
		key.date = b.Today.Date
		key.yesterday = b.IsYesterdayData
		key.high = b.Today.High
		key.condition = b.Today.Condition
	}

	p.mu.Lock()
	if p.published && p.last == key {
		p.mu.Unlock()
		return m, false
	}
	p.last = key
	p.published = true
	p.mu.Unlock()

	if p.sink != nil {
		p.sink.PublishMetadata(m)
	}
	return m, true
}
