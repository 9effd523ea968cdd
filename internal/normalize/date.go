// Package normalize reconciles the free-text values scraped from carrier
// pages (dates, timeline labels, container type codes) into the canonical
// vocabulary of the shipment schema.
package normalize

import (
	"regexp"
	"strings"
	"time"
)

// CanonicalDateLayout is the output layout of Date: dd-MM-yyyy.
const CanonicalDateLayout = "02-01-2006"

// dateLayouts is the ordered parse cascade. Carrier date formats are fixed
// but unlabeled, so order encodes priority: day-first numeric forms before
// month-first, long month names before short, ISO and weekday-suffixed forms
// last. The first layout that parses to a valid calendar date wins.
var dateLayouts = []string{
	// numeric, day-month-year
	"02-01-2006",
	"2-1-2006",
	"02-1-2006",
	"2-01-2006",
	"02/01/2006",
	"2/1/2006",
	"02/1/2006",
	"2/01/2006",
	"02.01.2006",
	"2.1.2006",
	"02.1.2006",
	"2.01.2006",

	// numeric, year first
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",

	// numeric, month-day-year
	"01-02-2006",
	"1-2-2006",
	"01-2-2006",
	"1-02-2006",
	"01/02/2006",
	"1/2/2006",
	"01/2/2006",
	"1/02/2006",

	// two-digit years
	"02-01-06",
	"02/01/06",
	"02.01.06",
	"01-02-06",
	"01/02/06",
	"06-01-02",
	"06/01/02",

	// long month names
	"2 January 2006",
	"02 January 2006",
	"January 2 2006",
	"January 02 2006",

	// short month names
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2 2006",
	"Jan 02 2006",

	// year-leading month names
	"2006 Jan 2",
	"2006 Jan 02",
	"2006 January 2",
	"2006 January 02",

	// verbose international forms (commas are stripped beforehand)
	"2 of January 2006",
	"Monday 2 January 2006",
	"Monday 2 Jan 2006",

	// ISO / API forms
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",

	// date with weekday suffix, optional time
	"2006-01-02 Mon 15:04",
	"2006-01-02 Mon",
	"2006-01-02 Monday 15:04",
	"2006-01-02 Monday",
}

// fallbackLayouts is the generic last-resort parse applied when no explicit
// pattern matched, mostly date+time combinations produced by joining a
// timeline date cell with its time cell.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02.01.2006 15:04",
	"2 Jan 2006 15:04",
	"02 Jan 2006 15:04",
	"Jan 2 2006 15:04",
	"2 January 2006 15:04",
	"Jan 2 2006 15:04:05 MST",
	"Mon Jan 2 2006",
	"Mon 02 Jan 2006",
	"Mon 2 Jan 2006 15:04",
}

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	ordinalSuffix = regexp.MustCompile(`(?i)\b(\d+)(st|nd|rd|th)\b`)
	weekdayAbbr   = regexp.MustCompile(`\b(MON|TUE|WED|THU|FRI|SAT|SUN)\b`)
)

// Date parses an arbitrary free-text date into the canonical dd-MM-yyyy
// string, or returns "" when the input is unparseable. The input may carry a
// weekday name, ordinal suffixes, month names, a 2- or 4-digit year, or an
// embedded time. Date is idempotent on its own output.
func Date(raw string) string {
	cleaned := spaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")
	if cleaned == "" {
		return ""
	}
	cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = weekdayAbbr.ReplaceAllStringFunc(cleaned, func(m string) string {
		return m[:1] + strings.ToLower(m[1:])
	})

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(CanonicalDateLayout)
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(CanonicalDateLayout)
		}
	}
	return ""
}
