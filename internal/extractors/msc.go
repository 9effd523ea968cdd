package extractors

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/browser"
	"github.com/freightwatch/bltracker/internal/normalize"
	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

// MSC extracts from the MSC track-a-shipment page. The search is form-driven
// and the flow tracking widget does not expose container types, so the
// summary falls back to the generic size placeholder. Last verified:
// 2025-12-15.
type MSC struct {
	logger *zap.Logger
}

// NewMSC builds the MSC extractor.
func NewMSC(logger *zap.Logger) *MSC {
	return &MSC{logger: logger}
}

// Capabilities omits the container type detail MSC never exposes; cntType
// still appears because the generic fallback summary is produced from the
// container count.
func (m *MSC) Capabilities() track.Capabilities {
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

const mscEventsJS = `(() => {
	const events = [];
	const steps = document.querySelectorAll(".msc-flow-tracking__tracking .msc-flow-tracking__step");
	for (const step of steps) {
		const date = step.querySelector(".msc-flow-tracking__cell--two .data-value")?.textContent?.trim() || "";
		const label = step.querySelector(".msc-flow-tracking__cell--four .data-value")?.textContent?.trim() || "";
		if (date && label) events.push({ label, date });
	}
	return events;
})()`

const mscPageTextJS = `document.querySelector(".msc-flow-tracking__container")?.textContent || ""`

var containerNoPattern = regexp.MustCompile(`\b[A-Z]{4}\d{7}\b`)

// Extract searches the page for one bill of lading and harvests the flow
// tracking widget.
func (m *MSC) Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error) {
	m.logger.Debug("opening page", zap.String("url", trackingURL))

	if err := page.Navigate(trackingURL); err != nil {
		return nil, err
	}
	page.Sleep(3 * time.Second)

	page.Type(browser.XPath(`//*[@id="trackingNumber"]`), shipmentID)
	page.Click(browser.XPath(`//*[@id="main"]/div[1]/div/div[1]/div/form/div/div[2]/div/button[2]`))
	page.Sleep(time.Second)

	fields := schema.Fields{}

	var events []normalize.RawEvent
	if err := page.Eval(mscEventsJS, &events); err != nil {
		m.logger.Debug("timeline harvest failed", zap.Error(err))
	}
	applyMilestones(fields, events)

	setIf(fields, schema.FieldPOL, page.ReadText(browser.XPath(
		`//*[@id="main"]/div[1]/div/div[3]/div/div/div/div[1]/div/div/div[2]/ul/li[3]/span[2]/span[1]`)))
	setIf(fields, schema.FieldPOD, page.ReadText(browser.XPath(
		`//*[@id="main"]/div[1]/div/div[3]/div/div/div/div[1]/div/div/div[2]/ul/li[4]/span[2]/span[1]`)))
	setIf(fields, schema.FieldVessel, page.ReadText(browser.XPath(
		`//*[@id="main"]/div[1]/div/div[3]/div/div/div/div[1]/div/div/div[3]/div/div/div[2]/div[2]/div[3]/div/div[5]/div/div/div/span/span`)))

	// Container numbers appear only in the widget's prose; type is never
	// exposed.
	var pageText string
	if err := page.Eval(mscPageTextJS, &pageText); err != nil {
		m.logger.Debug("container harvest failed", zap.Error(err))
	}
	applyContainers(fields, containerNoPattern.FindAllString(pageText, -1), nil)

	return fields, nil
}
