// Package extractors holds the per-carrier page extractors. Each extractor
// drives its carrier's tracking page through the browser action layer,
// harvests the raw timeline and container manifest, and returns raw schema
// fields; classification and normalization live in the normalize package.
//
// Selectors here are carrier-volatile by nature and carry no stability
// guarantee beyond the last verified date noted per extractor.
package extractors

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/normalize"
	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

// Defaults returns the registry populated with every built-in extractor.
func Defaults(logger *zap.Logger) *track.Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := track.NewRegistry()
	r.Register("maersk", NewMaersk(logger.Named("maersk")))
	r.Register("msc", NewMSC(logger.Named("msc")))
	r.Register("sinokor", NewSinokor(logger.Named("sinokor")))
	r.Register("kmtc", NewKMTC(logger.Named("kmtc")))
	r.Register("evergreen", NewEvergreen(logger.Named("evergreen")))
	r.Register("oneline", NewOneLine(logger.Named("oneline")))
	return r
}

// setIf assigns a field only when the scraped value is non-empty, so absent
// page content stays "not produced" instead of becoming an empty string.
func setIf(fields schema.Fields, f schema.Field, v string) {
	if v != "" {
		fields[f] = v
	}
}

// applyMilestones copies the classified timeline dates into the fields map.
func applyMilestones(fields schema.Fields, events []normalize.RawEvent) {
	emptyRelease, etd, eta := normalize.Milestones(events)
	setIf(fields, schema.FieldEmptyRelease, emptyRelease)
	setIf(fields, schema.FieldETD, etd)
	setIf(fields, schema.FieldETA, eta)
}

// applyContainers copies the consolidated container summary into the fields
// map.
func applyContainers(fields schema.Fields, ids, rawTypes []string) {
	summary := normalize.BuildContainerSummary(ids, rawTypes)
	if summary.IDs != nil {
		fields[schema.FieldCntNos] = *summary.IDs
	}
	if summary.Type != nil {
		fields[schema.FieldCntType] = *summary.Type
	}
	if summary.Count != nil {
		fields[schema.FieldCntCount] = strconv.Itoa(*summary.Count)
	}
}
