package schema

import (
	"strconv"
	"strings"

	"github.com/freightwatch/bltracker/internal/normalize"
)

// Status is the terminal outcome of one tracked shipment.
type Status string

// Record statuses.
const (
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
)

// Fields carries raw scraped values keyed by schema field. Extractors return
// a Fields map; absent keys mean "not produced this run".
type Fields map[Field]string

// Record is one canonical shipment row. Every field other than ID and Status
// is nullable; nil means the value was not produced, not that it is known
// absent.
type Record struct {
	ID           string
	Status       Status
	POL          *string
	POD          *string
	EmptyRelease *string
	ETD          *string
	ETA          *string
	LastEvent    *string
	Vessel       *string
	CntType      *string
	CntCount     *int
	CntNos       *string
}

// BuildRecord assembles a record from raw scraped values. It starts from an
// all-null record, sets the key fields, then coerces every scraped value by
// its declared column kind: dates through the date normalizer, numbers to
// int-or-nil, text trimmed-or-nil.
func BuildRecord(id string, status Status, scraped Fields) Record {
	rec := Record{ID: id, Status: status}
	for _, col := range Columns {
		if col.Field == FieldBL || col.Field == FieldStatus {
			continue
		}
		raw, ok := scraped[col.Field]
		if !ok {
			continue
		}
		rec.coerce(col, raw)
	}
	return rec
}

func (r *Record) coerce(col Column, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	switch col.Kind {
	case KindDate:
		if d := normalize.Date(raw); d != "" {
			r.setText(col.Field, d)
		}
	case KindNumber:
		if n, err := strconv.Atoi(raw); err == nil {
			r.setNumber(col.Field, n)
		}
	default:
		r.setText(col.Field, raw)
	}
}

// ApplyCapabilityMask forces to null every non-key field the descriptor does
// not declare. It runs after BuildRecord so an extractor cannot leak a field
// it does not officially support.
func ApplyCapabilityMask(rec *Record, supports []Field) {
	declared := make(map[Field]bool, len(supports))
	for _, f := range supports {
		declared[f] = true
	}
	for _, col := range Columns {
		if col.Field == FieldBL || col.Field == FieldStatus {
			continue
		}
		if !declared[col.Field] {
			rec.clear(col.Field)
		}
	}
}

// Row renders the record as export strings in schema order. Nil values render
// as empty strings.
func (r Record) Row() []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = r.display(col.Field)
	}
	return out
}

// Arg returns the SQL driver value for a field: nil for null, string for
// text/date columns, int64 for number columns.
func (r Record) Arg(f Field) any {
	switch f {
	case FieldBL:
		return r.ID
	case FieldStatus:
		return string(r.Status)
	case FieldCntCount:
		if r.CntCount == nil {
			return nil
		}
		return int64(*r.CntCount)
	default:
		p := r.textPtr(f)
		if p == nil || *p == nil {
			return nil
		}
		return **p
	}
}

func (r Record) display(f Field) string {
	switch f {
	case FieldBL:
		return r.ID
	case FieldStatus:
		return string(r.Status)
	case FieldCntCount:
		if r.CntCount == nil {
			return ""
		}
		return strconv.Itoa(*r.CntCount)
	default:
		p := r.textPtr(f)
		if p == nil || *p == nil {
			return ""
		}
		return **p
	}
}

// SetText assigns a text or date field. The key fields and the numeric count
// field are not addressable through SetText.
func (r *Record) SetText(f Field, v string) { r.setText(f, v) }

// SetNumber assigns a number field.
func (r *Record) SetNumber(f Field, n int) { r.setNumber(f, n) }

func (r *Record) setText(f Field, v string) {
	if p := r.textPtr(f); p != nil {
		*p = &v
	}
}

func (r *Record) setNumber(f Field, n int) {
	if f == FieldCntCount {
		r.CntCount = &n
	}
}

func (r *Record) clear(f Field) {
	if f == FieldCntCount {
		r.CntCount = nil
		return
	}
	if p := r.textPtr(f); p != nil {
		*p = nil
	}
}

func (r *Record) textPtr(f Field) **string {
	switch f {
	case FieldPOL:
		return &r.POL
	case FieldPOD:
		return &r.POD
	case FieldEmptyRelease:
		return &r.EmptyRelease
	case FieldETD:
		return &r.ETD
	case FieldETA:
		return &r.ETA
	case FieldLastEvent:
		return &r.LastEvent
	case FieldVessel:
		return &r.Vessel
	case FieldCntType:
		return &r.CntType
	case FieldCntNos:
		return &r.CntNos
	default:
		return nil
	}
}
