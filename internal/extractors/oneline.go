package extractors

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/browser"
	"github.com/freightwatch/bltracker/internal/normalize"
	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

// OneLine extracts from the Ocean Network Express tracking page. The results
// table is a virtualized grid, so containers and timeline entries are scraped
// from rendered text rather than per-cell selectors. Last verified:
// 2025-12-20.
type OneLine struct {
	logger *zap.Logger
}

// NewOneLine builds the ONE extractor.
func NewOneLine(logger *zap.Logger) *OneLine {
	return &OneLine{logger: logger}
}

// Capabilities covers the schema minus the last movement, which the grid does
// not expose.
func (o *OneLine) Capabilities() track.Capabilities {
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

const onelineContainersJS = `(() => {
	const out = { ids: [], types: [] };
	const text = Array.from(document.querySelectorAll('div[role="rowgroup"].Table_body__JrCVh'))
		.map(el => el.textContent)
		.join(" ")
		.replace(/\s+/g, " ");
	const seen = new Set();
	const re = /([A-Z]{4}\d{7})\s+(20|40)'?\s*([A-Z]+)/g;
	let m;
	while ((m = re.exec(text)) !== null) {
		if (seen.has(m[1])) continue;
		seen.add(m[1]);
		out.ids.push(m[1]);
		out.types.push(m[2] + "'" + m[3]);
	}
	return out;
})()`

// The timeline has no row structure after virtualization flattens it, so the
// page text is re-assembled into label/date pairs line by line.
const onelineEventsJS = `(() => {
	const lines = document.body.innerText.split("\n").map(l => l.trim()).filter(Boolean);
	const events = [];
	let current = null;
	for (const line of lines) {
		if (!/^\d{4}-\d{2}-\d{2}$/.test(line) && !/^\d{2}:\d{2}$/.test(line)) {
			if (current) events.push(current);
			current = { label: line, date: "" };
			continue;
		}
		if (/^\d{4}-\d{2}-\d{2}$/.test(line) && current) {
			current.date = line;
			continue;
		}
		if (/^\d{2}:\d{2}$/.test(line) && current && current.date) {
			current.date += " " + line;
		}
	}
	if (current) events.push(current);
	return events;
})()`

// Extract drives the tracking page for one bill of lading.
func (o *OneLine) Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error) {
	url := trackingURL + normalize.BillOfLading("oneline", shipmentID)
	o.logger.Debug("opening page", zap.String("url", url))

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	page.Sleep(3 * time.Second)

	// Expand the first result row so the container grid renders.
	page.Click(browser.XPath(`//*[@id="table-wrap"]/div[2]/div[1]/div/div[1]/div/div/div[2]`))

	fields := schema.Fields{}

	var containers struct {
		IDs   []string `json:"ids"`
		Types []string `json:"types"`
	}
	if err := page.Eval(onelineContainersJS, &containers); err != nil {
		o.logger.Debug("container harvest failed", zap.Error(err))
	}
	applyContainers(fields, containers.IDs, containers.Types)

	setIf(fields, schema.FieldPOL, page.ReadText(browser.XPath(
		`//*[text()="Place of Receipt"]/following::div[1]`)))
	setIf(fields, schema.FieldPOD, page.ReadText(browser.XPath(
		`//*[text()="Place of Delivery"]/following::div[1]`)))
	setIf(fields, schema.FieldVessel, page.ReadText(browser.XPath(
		`//*[contains(text(),"Vessel")]/following::a[1]`)))

	var events []normalize.RawEvent
	if err := page.Eval(onelineEventsJS, &events); err != nil {
		o.logger.Debug("timeline harvest failed", zap.Error(err))
	}
	applyMilestones(fields, events)

	return fields, nil
}
