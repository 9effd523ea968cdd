// Package schema defines the fixed shipment record schema shared by the
// extraction pipeline, the store, and the exporters. Column order here is
// export column order; new fields are added only here.
package schema

// Field identifies one column of the shipment schema.
type Field string

// Schema fields, in export order.
const (
	FieldBL           Field = "bl"
	FieldStatus       Field = "status"
	FieldPOL          Field = "pol"
	FieldPOD          Field = "pod"
	FieldEmptyRelease Field = "emptyRel"
	FieldETD          Field = "etd"
	FieldETA          Field = "eta"
	FieldLastEvent    Field = "lastEvent"
	FieldVessel       Field = "vessel"
	FieldCntType      Field = "cntType"
	FieldCntCount     Field = "nosCnt"
	FieldCntNos       Field = "cntNo"
)

// Kind declares how a scraped value is coerced before it lands in a record.
type Kind string

// Value kinds.
const (
	KindText   Kind = "text"
	KindDate   Kind = "date"
	KindNumber Kind = "number"
)

// Column describes one schema column.
type Column struct {
	Field  Field
	Header string
	Kind   Kind
}

// Columns is the ordered schema table. Order here is CSV column order.
var Columns = []Column{
	{FieldBL, "BL", KindText},
	{FieldStatus, "Status", KindText},
	{FieldPOL, "POL", KindText},
	{FieldPOD, "POD", KindText},
	{FieldEmptyRelease, "Empty Release", KindDate},
	{FieldETD, "ETD", KindDate},
	{FieldETA, "ETA", KindDate},
	{FieldLastEvent, "Last Events", KindText},
	{FieldVessel, "Vessel", KindText},
	{FieldCntType, "Container Type", KindText},
	{FieldCntCount, "No. of Containers", KindNumber},
	{FieldCntNos, "Containers No.", KindText},
}

// Header returns the export header row in schema order.
func Header() []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = col.Header
	}
	return out
}

// ColumnFor looks up the column definition for a field.
func ColumnFor(f Field) (Column, bool) {
	for _, col := range Columns {
		if col.Field == f {
			return col, true
		}
	}
	return Column{}, false
}
