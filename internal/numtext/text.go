package numtext

import (
	"regexp"
	"strings"
	"time"
)

var wsRx = regexp.MustCompile(`\s+`)

// Clean trims a string and collapses internal whitespace runs to single spaces.
func Clean(s string) string {
	return strings.TrimSpace(wsRx.ReplaceAllString(s, " "))
}

// dateLayouts is ordered from least to most ambiguous; first parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"02.01.2006",
}

// NormalizeDate renders a recognized calendar date as YYYY-MM-DD.
// Unrecognized input is returned cleaned rather than dropped, so a
// human-readable but unparseable date survives to the report.
func NormalizeDate(s string) string {
	c := Clean(s)
	if c == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, c); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return c
}
