package normalize

import (
	"strings"
)

// RawEvent is one timeline entry exactly as scraped: a free-text label, a
// free-text date, and an optional time component.
type RawEvent struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Time  string `json:"time,omitempty"`
}

// milestone is a canonical timeline bucket.
type milestone int

const (
	milestoneNone milestone = iota
	milestoneEmptyRelease
	milestoneETD
	milestoneETA
)

// Keyword sets are checked in declared order and a label classifies into the
// first set that matches. "gate in" lives under ETD even though some carriers
// use it for empty-equipment pickup; the correct reading is carrier-specific
// and undocumented, so the heuristic is kept as-is.
var keywordSets = []struct {
	kind  milestone
	words []string
}{
	{milestoneEmptyRelease, []string{
		"empty release",
		"empty pickup",
		"empty pick",
		"empty container",
		"empty gate",
		"gate out empty",
		"empty",
		"pickup",
	}},
	{milestoneETD, []string{
		"etd",
		"departure",
		"vessel departure",
		"loaded on vessel",
		"export loaded",
		"gate in",
	}},
	{milestoneETA, []string{
		"eta",
		"arrival",
		"vessel arrival",
		"estimated arrival",
	}},
}

func classifyLabel(label string) milestone {
	l := strings.ToLower(label)
	for _, set := range keywordSets {
		for _, w := range set.words {
			if strings.Contains(l, w) {
				return set.kind
			}
		}
	}
	return milestoneNone
}

// Milestones reduces a scraped timeline to the three canonical dates, each ""
// when absent. Events whose date cannot be normalized are discarded. Empty
// release and ETD keep the first resolvable match: they are fixed historical
// facts. ETA keeps the last: arrival estimates are revised over time and
// later timeline entries supersede earlier ones.
func Milestones(events []RawEvent) (emptyRelease, etd, eta string) {
	for _, e := range events {
		if e.Label == "" {
			continue
		}
		kind := classifyLabel(e.Label)
		if kind == milestoneNone {
			continue
		}

		raw := e.Date
		if e.Time != "" {
			raw += " " + e.Time
		}
		date := Date(raw)
		if date == "" {
			continue
		}

		switch kind {
		case milestoneEmptyRelease:
			if emptyRelease == "" {
				emptyRelease = date
			}
		case milestoneETD:
			if etd == "" {
				etd = date
			}
		case milestoneETA:
			eta = date
		}
	}
	return emptyRelease, etd, eta
}
