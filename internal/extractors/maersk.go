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

// Maersk extracts from the Maersk tracking page. The page renders the
// transport plan client-side; timeline entries are harvested in one DOM
// evaluation because the milestone rows have no stable per-cell selectors.
// Last verified: 2025-12-20.
type Maersk struct {
	logger *zap.Logger
}

// NewMaersk builds the Maersk extractor.
func NewMaersk(logger *zap.Logger) *Maersk {
	return &Maersk{logger: logger}
}

// Capabilities declares the full schema: Maersk exposes ports, the complete
// timeline, the vessel, and the container manifest.
func (m *Maersk) Capabilities() track.Capabilities {
	return track.Capabilities{Supports: []schema.Field{
		schema.FieldPOL,
		schema.FieldPOD,
		schema.FieldEmptyRelease,
		schema.FieldETD,
		schema.FieldETA,
		schema.FieldLastEvent,
		schema.FieldVessel,
		schema.FieldCntNos,
		schema.FieldCntType,
		schema.FieldCntCount,
	}}
}

const maerskEventsJS = `(() => {
	const events = [];
	const ul = document.querySelector("#transport-plan__container__0 ul");
	if (!ul) return events;
	for (const li of ul.querySelectorAll("li")) {
		const milestone = li.querySelector('div[data-test="milestone"]');
		if (!milestone) continue;
		const label = milestone.querySelector("span")?.textContent?.trim() || "";
		const date = milestone.querySelector('span[data-test="milestone-date"]')?.textContent?.trim() || "";
		if (label) events.push({ label, date });
	}
	return events;
})()`

const maerskVesselJS = `(() => {
	const ul = document.querySelector("#transport-plan__container__0 ul");
	if (!ul) return "";
	for (const li of ul.querySelectorAll("li")) {
		const milestone = li.querySelector('div[data-test="milestone"]');
		if (!milestone) continue;
		for (const node of milestone.childNodes) {
			if (node.nodeType === Node.TEXT_NODE && node.textContent.includes("(")) {
				return node.textContent.replace(/[()]/g, "").trim();
			}
		}
	}
	return "";
})()`

const maerskContainersJS = `(() => {
	const out = { ids: [], types: [] };
	const details = document.querySelector('mc-text-and-icon[data-test="container-details"]');
	if (!details) return out;
	const no = details.querySelector("span.mds-text--medium-bold")?.textContent?.trim();
	if (no) out.ids.push(no);
	const rawType = details.querySelector("span:last-of-type")?.textContent?.trim();
	if (rawType) out.types.push(rawType);
	return out;
})()`

// Extract drives the tracking page for one bill of lading.
func (m *Maersk) Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error) {
	url := trackingURL + shipmentID
	m.logger.Debug("opening page", zap.String("url", url))

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	page.Sleep(2500 * time.Millisecond)

	// Cookie consent shows on fresh sessions only; a failed click just means
	// the banner is not there.
	page.Click(browser.XPath(`//button[contains(., "Accept")]`))

	fields := schema.Fields{}

	var events []normalize.RawEvent
	if err := page.Eval(maerskEventsJS, &events); err != nil {
		m.logger.Debug("timeline harvest failed", zap.Error(err))
	}
	applyMilestones(fields, events)

	setIf(fields, schema.FieldPOL, page.ReadText(browser.XPath(
		`//*[@id="transport-plan__container__0"]//li[1]//div[@data-test="location-name"]//strong`)))
	setIf(fields, schema.FieldPOD, page.ReadText(browser.XPath(
		`//*[@id="transport-plan__container__0"]//li[last()]//div[@data-test="location-name"]//strong`)))

	var vessel string
	if err := page.Eval(maerskVesselJS, &vessel); err != nil {
		m.logger.Debug("vessel harvest failed", zap.Error(err))
	}
	setIf(fields, schema.FieldVessel, vessel)

	var containers struct {
		IDs   []string `json:"ids"`
		Types []string `json:"types"`
	}
	if err := page.Eval(maerskContainersJS, &containers); err != nil {
		m.logger.Debug("container harvest failed", zap.Error(err))
	}
	applyContainers(fields, containers.IDs, containers.Types)

	return fields, nil
}
