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

// Sinokor extracts from the Sinokor cargo tracking page. The page is static
// HTML behind a detail toggle; an invalid bill of lading fails silently with
// an empty detail pane. Last verified: 2025-12-15.
type Sinokor struct {
	logger *zap.Logger
}

// NewSinokor builds the Sinokor extractor.
func NewSinokor(logger *zap.Logger) *Sinokor {
	return &Sinokor{logger: logger}
}

// Capabilities excludes the last event: the page has no running event feed,
// only the fixed milestone table.
func (s *Sinokor) Capabilities() track.Capabilities {
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

const sinokorPOLJS = `document.querySelector("#arrPolnm")?.value || ""`
const sinokorPODJS = `document.querySelector("#arrPodnm")?.value || ""`

const sinokorVesselJS = `(() => {
	let last = "";
	for (const row of document.querySelectorAll("#divDetailInfo table tr")) {
		if (row.innerText.includes("Vessel / Voyage")) continue;
		if (row.children.length > 0) {
			const txt = row.children[0].innerText;
			if (txt.includes("/")) last = txt;
		}
	}
	return last.trim();
})()`

// Milestone labels sit in header rows; the matching date is the last cell of
// the row that follows.
const sinokorEventsJS = `(() => {
	const events = [];
	const rows = document.querySelectorAll("#divDetailInfo table tr");
	for (let i = 0; i < rows.length; i++) {
		const header = rows[i].querySelector("th span");
		if (!header) continue;
		const label = header.innerText.trim();
		const dataRow = rows[i + 1];
		if (!dataRow) continue;
		const date = dataRow.children[dataRow.children.length - 1]?.innerText?.trim() || "";
		if (label && date) events.push({ label, date });
	}
	return events;
})()`

const sinokorContainersJS = `(() => {
	const out = { ids: [], types: [] };
	document.querySelectorAll("#tblFreetime tbody tr").forEach(tr => {
		const tds = tr.querySelectorAll("td");
		if (tds.length >= 2) {
			out.ids.push(tds[0].innerText.trim());
			out.types.push(tds[1].innerText.trim());
		}
	});
	return out;
})()`

// Extract drives the tracking page for one bill of lading.
func (s *Sinokor) Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error) {
	url := trackingURL + shipmentID
	s.logger.Debug("opening page", zap.String("url", url))

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	page.Sleep(2 * time.Second)
	page.Click(browser.XPath(`//*[@id="tglDetailInfo"]`))

	fields := schema.Fields{}

	// The port inputs carry "CODE NAME..." text; POL keeps the first token
	// and POD the last.
	var polRaw, podRaw string
	if err := page.Eval(sinokorPOLJS, &polRaw); err != nil {
		s.logger.Debug("pol harvest failed", zap.Error(err))
	}
	if err := page.Eval(sinokorPODJS, &podRaw); err != nil {
		s.logger.Debug("pod harvest failed", zap.Error(err))
	}
	if parts := strings.Fields(polRaw); len(parts) > 0 {
		fields[schema.FieldPOL] = parts[0]
	}
	if parts := strings.Fields(podRaw); len(parts) > 0 {
		fields[schema.FieldPOD] = parts[len(parts)-1]
	}

	var vessel string
	if err := page.Eval(sinokorVesselJS, &vessel); err != nil {
		s.logger.Debug("vessel harvest failed", zap.Error(err))
	}
	setIf(fields, schema.FieldVessel, vessel)

	var events []normalize.RawEvent
	if err := page.Eval(sinokorEventsJS, &events); err != nil {
		s.logger.Debug("milestone harvest failed", zap.Error(err))
	}
	applyMilestones(fields, events)

	var containers struct {
		IDs   []string `json:"ids"`
		Types []string `json:"types"`
	}
	if err := page.Eval(sinokorContainersJS, &containers); err != nil {
		s.logger.Debug("container harvest failed", zap.Error(err))
	}
	applyContainers(fields, containers.IDs, containers.Types)

	return fields, nil
}
