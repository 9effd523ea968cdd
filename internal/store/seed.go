package store

import (
	"context"

	"github.com/freightwatch/bltracker/internal/track"
)

// defaultCarriers is the embedded default carrier set used on first run.
// Subsequent runs reconcile against the remote authoritative list instead.
var defaultCarriers = []track.Carrier{
	{Code: "MAE", DisplayName: "Maersk", ExtractorKey: "maersk", TrackingURL: "https://www.maersk.com/tracking/", Active: true},
	{Code: "MSC", DisplayName: "MSC", ExtractorKey: "msc", TrackingURL: "https://www.msc.com/track-a-shipment", Active: true},
	{Code: "ONE", DisplayName: "ONE Line", ExtractorKey: "oneline", TrackingURL: "https://ecomm.one-line.com/one-ecom/manage-shipment/cargo-tracking?trakNoParam=", Active: true},
	{Code: "EVG", DisplayName: "Evergreen", ExtractorKey: "evergreen", TrackingURL: "https://www.shipmentlink.com/servlet/TDB1_CargoTracking.do", Active: true},
	{Code: "SNK", DisplayName: "Sinokor", ExtractorKey: "sinokor", TrackingURL: "https://ebusiness.sinokor.co.kr/ebiz/track_trace/trackCTP.jsp?srchBl=", Active: true},
	{Code: "KMT", DisplayName: "KMTC", ExtractorKey: "kmtc", TrackingURL: "https://www.kmtc.co.kr/eng/tracking", Active: true},
}

// SeedDefaults installs the embedded default carriers, skipping any already
// present.
func (s *Store) SeedDefaults(ctx context.Context) error {
	return s.SeedCarriers(ctx, defaultCarriers)
}
