// Package intent infers which "years ago" comparison a visitor came for,
// from the page's query string or the referring search URL.
package intent

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/lox/weathercompare/internal/models"
)

// yearsAgoPattern matches digits directly followed by 年前 ("years ago").
var yearsAgoPattern = regexp.MustCompile(`(\d+)年前`)

type Source string

const (
	SourceNone     Source = ""
	SourceParam    Source = "years"
	SourceKeyword  Source = "q"
	SourceReferrer Source = "referrer"
)

// Intent is an inferred years-ago value and where it came from.
type Intent struct {
	YearsAgo int
	Source   Source
}

// ExtractYearsAgo returns the first positive "<digits>年前" value in text.
func ExtractYearsAgo(text string) (int, bool) {
	for _, m := range yearsAgoPattern.FindAllStringSubmatch(text, -1) {
		if n, ok := positive(m[1]); ok {
			return n, true
		}
	}
	return 0, false
}

// FromRequest resolves intent from the page query and the document referrer.
// An explicit years parameter beats anything inferred from free text. The
// free text is the q parameter when present, otherwise the referrer. Values
// the weather service cannot look up (above models.MaxYearsAgo) are no intent.
func FromRequest(query url.Values, referrer string) (Intent, bool) {
	in, ok := fromRequest(query, referrer)
	if !ok || in.YearsAgo > models.MaxYearsAgo {
		return Intent{}, false
	}
	return in, true
}

func fromRequest(query url.Values, referrer string) (Intent, bool) {
	if n, ok := positive(query.Get("years")); ok {
		return Intent{YearsAgo: n, Source: SourceParam}, true
	}

	keyword, source := query.Get("q"), SourceKeyword
	if keyword == "" {
		keyword, source = referrer, SourceReferrer
	}
	if keyword == "" {
		return Intent{}, false
	}

	if n, ok := ExtractYearsAgo(decode(keyword)); ok {
		return Intent{YearsAgo: n, Source: source}, true
	}
	return Intent{}, false
}

// decode unescapes percent-encoded referrers such as search result URLs.
// Undecodable input is matched as-is.
func decode(s string) string {
	if !strings.Contains(s, "%") && !strings.Contains(s, "+") {
		return s
	}
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	return s
}

func positive(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
