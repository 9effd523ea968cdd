package normalize

import "strings"

// blPrefixes maps extractor keys to the booking prefix carriers prepend to
// bill of lading numbers on their own documents but reject in their tracking
// search fields.
var blPrefixes = map[string]string{
	"evergreen": "EGLV",
	"kmtc":      "KMTC",
	"oneline":   "ONEY",
}

// BillOfLading strips the carrier's own booking prefix from a shipment
// identifier before it is typed into that carrier's tracking form.
func BillOfLading(extractorKey, bl string) string {
	b := strings.TrimSpace(bl)
	prefix, ok := blPrefixes[strings.ToLower(extractorKey)]
	if !ok {
		return b
	}
	if len(b) >= len(prefix) && strings.EqualFold(b[:len(prefix)], prefix) {
		return b[len(prefix):]
	}
	return b
}
