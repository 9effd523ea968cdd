package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// ContainerType is a canonical (size, kind) pair: size "20" or "40", kind
// "OT" (open top), "R" (reefer), or "D" (dry / general purpose / side door).
type ContainerType struct {
	Size string
	Kind string
}

var (
	size20 = regexp.MustCompile(`\b20\b|\b20'|\b20FT`)
	size22 = regexp.MustCompile(`\b22GP\b`)
	size40 = regexp.MustCompile(`\b40\b|\b40'|\b40FT`)
)

// ContainerTypeOf canonicalizes a raw container type string. A type is only
// usable when both size and kind resolve; a partial match reports ok=false
// rather than a best guess.
func ContainerTypeOf(raw string) (ContainerType, bool) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return ContainerType{}, false
	}

	var size string
	switch {
	case size20.MatchString(t):
		size = "20"
	case size22.MatchString(t):
		// 22GP is a carrier equipment code for a standard 20' box.
		size = "20"
	case size40.MatchString(t):
		size = "40"
	}

	var kind string
	switch {
	case strings.Contains(t, "OPEN") || strings.Contains(t, "OT"):
		kind = "OT"
	case strings.Contains(t, "REFR") || strings.Contains(t, "REEFER"):
		kind = "R"
	case strings.Contains(t, "DRY") || strings.Contains(t, "DV") ||
		strings.Contains(t, "GP") || strings.Contains(t, "SD"):
		kind = "D"
	}

	if size == "" || kind == "" {
		return ContainerType{}, false
	}
	return ContainerType{Size: size, Kind: kind}, true
}

// ContainerSummary is the consolidated container manifest for one shipment.
// All fields are nil when the shipment exposed no container identifiers.
type ContainerSummary struct {
	IDs   *string
	Type  *string
	Count *int
}

// BuildContainerSummary deduplicates container identifiers and renders the
// grouped type summary. When at least one raw type normalizes, groups render
// as "<count> x <size> <kind>" joined by " & "; when none do (the carrier
// does not expose a usable type) the summary falls back to a generic
// "<count> x 20'/40'" so an unknown type still reports a usable total.
func BuildContainerSummary(ids, rawTypes []string) ContainerSummary {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return ContainerSummary{}
	}

	count := len(unique)
	joined := strings.Join(unique, " ")

	summary := renderTypeGroups(rawTypes)
	if summary == "" {
		summary = fmt.Sprintf("%d x 20'/40'", count)
	}

	return ContainerSummary{
		IDs:   &joined,
		Type:  &summary,
		Count: &count,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func renderTypeGroups(rawTypes []string) string {
	counts := make(map[ContainerType]int)
	var order []ContainerType
	for _, raw := range rawTypes {
		ct, ok := ContainerTypeOf(raw)
		if !ok {
			continue
		}
		if counts[ct] == 0 {
			order = append(order, ct)
		}
		counts[ct]++
	}

	segments := make([]string, 0, len(order))
	for _, ct := range order {
		segments = append(segments, fmt.Sprintf("%d x %s %s", counts[ct], ct.Size, ct.Kind))
	}
	return strings.Join(segments, " & ")
}
