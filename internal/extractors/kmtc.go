package extractors

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/browser"
	"github.com/freightwatch/bltracker/internal/normalize"
	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

// KMTC extracts from the KMTC cargo tracking page. The itinerary is a
// multi-leg table: the first leg supplies the load port and departure, and
// the leg with the latest arrival supplies the discharge port, arrival, and
// vessel. Last verified: 2025-12-22.
type KMTC struct {
	logger *zap.Logger
}

// NewKMTC builds the KMTC extractor.
func NewKMTC(logger *zap.Logger) *KMTC {
	return &KMTC{logger: logger}
}

// Capabilities excludes the last event: the location feed carries only the
// empty release milestone reliably.
func (k *KMTC) Capabilities() track.Capabilities {
	return track.Capabilities{Supports: []schema.Field{
		schema.FieldPOL,
		schema.FieldPOD,
		schema.FieldEmptyRelease,
		schema.FieldETD,
		schema.FieldETA,
		schema.FieldVessel,
		schema.FieldCntNos,
		schema.FieldCntType,
		schema.FieldCntCount,
	}}
}

// kmtcLeg is one itinerary segment as parsed off the results table.
type kmtcLeg struct {
	POL    string `json:"pol"`
	ETD    string `json:"etd"`
	POD    string `json:"pod"`
	ETA    string `json:"eta"`
	Vessel string `json:"vessel"`
}

// Full rows repeat the container columns; continuation rows start directly at
// the leg columns. Both shapes are folded into the same leg list.
const kmtcTableJS = `(() => {
	const out = { legs: [], ids: [], types: [] };
	const seen = new Set();
	const split = node => {
		if (!node || typeof node.innerText !== "string") return [];
		return node.innerText.split("\n").map(t => t.trim()).filter(Boolean);
	};
	for (const row of document.querySelectorAll("table.tbl_col tbody tr")) {
		const tds = Array.from(row.querySelectorAll("td"));
		if (tds.length >= 7) {
			const cntNo = row.querySelector(".cntrNo_area")?.textContent?.trim() || "";
			if (/^[A-Z]{4}\d{7}$/.test(cntNo) && !seen.has(cntNo)) {
				seen.add(cntNo);
				out.ids.push(cntNo);
				out.types.push(tds[3]?.innerText?.trim() || "");
			}
			const [pol = "", etd = ""] = split(tds[5]);
			const [pod = "", eta = ""] = split(tds[6]);
			const vessel = tds[7]?.innerText?.replace(/^\d+\)/, "").trim() || "";
			out.legs.push({ pol, etd, pod, eta, vessel });
		} else if (tds.length >= 3) {
			const [pol = "", etd = ""] = split(tds[0]);
			const [pod = "", eta = ""] = split(tds[1]);
			const vessel = tds[2]?.innerText?.replace(/^\d+\)/, "").trim() || "";
			out.legs.push({ pol, etd, pod, eta, vessel });
		}
	}
	return out;
})()`

const kmtcEventsJS = `(() => {
	const events = [];
	document.querySelectorAll(".location_detail li").forEach(li => {
		const label = li.querySelector(".ts_scroll p")?.innerText?.replace(/\s+/g, " ").trim() || "";
		const dateNode = li.querySelector(".date");
		const date = dateNode?.childNodes[0]?.textContent?.trim() || "";
		const time = dateNode?.querySelector("span")?.innerText?.trim() || "";
		if (label && date) events.push({ label, date, time });
	});
	return events;
})()`

// Extract searches the page for one bill of lading and folds the multi-leg
// itinerary into a single record.
func (k *KMTC) Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error) {
	blNo := normalize.BillOfLading("kmtc", shipmentID)
	k.logger.Debug("opening page", zap.String("url", trackingURL), zap.String("bl", blNo))

	if err := page.Navigate(trackingURL); err != nil {
		return nil, err
	}
	page.Sleep(3 * time.Second)

	page.Type(browser.XPath(`//*[@id="blNo"]`), blNo)
	page.Click(browser.XPath(`/html/body/div/div[1]/div[2]/div[1]/form/div/table/tbody/tr/td[3]/a`))
	page.Sleep(6 * time.Second)
	page.WaitVisible(browser.CSS("table.tbl_col"), 20*time.Second)

	fields := schema.Fields{}

	var table struct {
		Legs  []kmtcLeg `json:"legs"`
		IDs   []string  `json:"ids"`
		Types []string  `json:"types"`
	}
	if err := page.Eval(kmtcTableJS, &table); err != nil {
		k.logger.Debug("table harvest failed", zap.Error(err))
	}

	if len(table.Legs) > 0 {
		first := table.Legs[0]
		final := latestArrivalLeg(table.Legs)

		setIf(fields, schema.FieldPOL, first.POL)
		setIf(fields, schema.FieldETD, first.ETD)
		setIf(fields, schema.FieldPOD, final.POD)
		setIf(fields, schema.FieldETA, final.ETA)
		setIf(fields, schema.FieldVessel, final.Vessel)
	}

	applyContainers(fields, table.IDs, table.Types)

	var events []normalize.RawEvent
	if err := page.Eval(kmtcEventsJS, &events); err != nil {
		k.logger.Debug("event harvest failed", zap.Error(err))
	}
	emptyRelease, _, _ := normalize.Milestones(events)
	setIf(fields, schema.FieldEmptyRelease, emptyRelease)

	return fields, nil
}

// latestArrivalLeg picks the leg with the most recent parseable arrival, or
// the first leg when no arrival parses.
func latestArrivalLeg(legs []kmtcLeg) kmtcLeg {
	best := legs[0]
	var bestAt time.Time
	for _, leg := range legs {
		at, ok := parseKMTCDate(leg.ETA)
		if ok && at.After(bestAt) {
			best = leg
			bestAt = at
		}
	}
	return best
}

// parseKMTCDate reads the dotted timestamps the itinerary table uses, with or
// without the time part.
func parseKMTCDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006.01.02 15:04", "2006.01.02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
