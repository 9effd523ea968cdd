// Package export writes the tabular result and registry files consumed by
// the spreadsheet front end. Every value is quoted, including empties, so
// the files load identically across locale-configured spreadsheet imports.
package export

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/store"
)

// Results exports every shipment record to path, one fixed-order column per
// schema field with the schema display names as the header row.
func Results(ctx context.Context, st *store.Store, path string) error {
	records, err := st.ListShipments(ctx)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(schema.Header(), ","))
	for _, rec := range records {
		lines = append(lines, renderRow(rec.Row()))
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// Carriers exports the carrier registry to path, mirroring the carrier
// table's current columns.
func Carriers(ctx context.Context, st *store.Store, path string) error {
	carriers, err := st.ListCarriers(ctx)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(carriers)+1)
	lines = append(lines, "code,display_name,extractor_key,url,active")
	for _, c := range carriers {
		active := "0"
		if c.Active {
			active = "1"
		}
		lines = append(lines, renderRow([]string{
			c.Code, c.DisplayName, c.ExtractorKey, c.TrackingURL, active,
		}))
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

func renderRow(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
