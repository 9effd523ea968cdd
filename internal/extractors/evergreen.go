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

// Evergreen extracts from the Evergreen ShipmentLink tracking page. The site
// is static HTML behind a search form: the BL radio must be selected and the
// number typed without its EGLV prefix. An invalid BL fails silently, leaving
// the result page empty. Last verified: 2025-12-15.
type Evergreen struct {
	logger *zap.Logger
}

// NewEvergreen builds the Evergreen extractor.
func NewEvergreen(logger *zap.Logger) *Evergreen {
	return &Evergreen{logger: logger}
}

// Capabilities declares the full schema including the last reported movement.
func (e *Evergreen) Capabilities() track.Capabilities {
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

const evergreenEventsJS = `(() => {
	const events = [];
	const rows = document.querySelectorAll("#CtnMovesInfo table.ec-table-sm tr");
	for (const row of rows) {
		const tds = row.querySelectorAll("td");
		if (tds.length !== 2) continue;
		const date = tds[0].textContent.trim();
		const label = tds[1].textContent.trim();
		if (date && label) events.push({ label, date });
	}
	return events;
})()`

const evergreenContainersJS = `(() => {
	const out = { ids: [], types: [] };
	const rows = document.querySelectorAll("table.ec-table-sm tr");
	for (const row of rows) {
		const tds = row.querySelectorAll("td");
		if (tds.length < 2) continue;
		const no = tds[0].innerText?.trim() || "";
		const type = tds[1].innerText?.trim() || "";
		if (/^[A-Z]{4}\d{7}$/.test(no)) {
			out.ids.push(no);
			out.types.push(type);
		}
	}
	return out;
})()`

// Extract drives the tracking page for one bill of lading.
func (e *Evergreen) Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error) {
	e.logger.Debug("opening page", zap.String("url", trackingURL))

	if err := page.Navigate(trackingURL); err != nil {
		return nil, err
	}
	page.Sleep(3 * time.Second)

	page.SelectRadio(browser.XPath(`//*[@id="s_bl"]`))
	page.Type(browser.XPath(`//*[@id="NO"]`), normalize.BillOfLading("evergreen", shipmentID))
	page.Click(browser.XPath(`//*[@id="nav-quick"]/table/tbody/tr[1]/td/table/tbody/tr[1]/td[2]/table/tbody/tr/td/div[2]/input`))
	page.Click(browser.XPath(`/html/body/div[7]/center/table[3]/tbody/tr/td/table[8]/tbody/tr/td/a`))

	fields := schema.Fields{}

	setIf(fields, schema.FieldPOL, page.ReadText(browser.XPath(
		`//table[contains(@class,'ec-table')]//th[normalize-space()='Port of Loading']/following-sibling::td[1]`)))
	setIf(fields, schema.FieldPOD, page.ReadText(browser.XPath(
		`//table[contains(@class,'ec-table')]//th[normalize-space()='Port of Discharge']/following-sibling::td[1]`)))

	vessel := page.ReadText(browser.XPath(`//td[contains(text(),'Vessel')]/following-sibling::td[1]`))
	if vessel == "" {
		vessel = page.ReadText(browser.XPath(`//th[contains(text(),'Vessel')]/following-sibling::td[1]`))
	}
	setIf(fields, schema.FieldVessel, vessel)

	setIf(fields, schema.FieldETA, page.ReadText(browser.XPath(
		`//td[contains(text(),'Estimated Date of Arrival')]/font`)))
	setIf(fields, schema.FieldETD, page.ReadText(browser.XPath(
		`//th[contains(text(),'Estimated On Board Date')]/following-sibling::td`)))

	// The movement table only yields the empty release; ETD and ETA come from
	// their dedicated cells above.
	var events []normalize.RawEvent
	if err := page.Eval(evergreenEventsJS, &events); err != nil {
		e.logger.Debug("movement harvest failed", zap.Error(err))
	}
	emptyRelease, _, _ := normalize.Milestones(events)
	setIf(fields, schema.FieldEmptyRelease, emptyRelease)

	var containers struct {
		IDs   []string `json:"ids"`
		Types []string `json:"types"`
	}
	if err := page.Eval(evergreenContainersJS, &containers); err != nil {
		e.logger.Debug("container harvest failed", zap.Error(err))
	}
	applyContainers(fields, containers.IDs, containers.Types)

	setIf(fields, schema.FieldLastEvent, page.ReadText(browser.XPath(
		`/html/body/div[7]/center/table[3]/tbody/tr/td/table[4]/tbody/tr[3]/td[8]`)))

	return fields, nil
}
