package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRecord_CoercesByColumnKind(t *testing.T) {
	t.Parallel()

	rec := BuildRecord("BL123", StatusSuccess, Fields{
		FieldPOL:          "  BUSAN ",
		FieldETA:          "December 25 2025",
		FieldCntCount:     "3",
		FieldVessel:       "EVER GIVEN / 0123E",
		FieldEmptyRelease: "not a date",
	})

	require.Equal(t, "BL123", rec.ID)
	require.Equal(t, StatusSuccess, rec.Status)
	require.Equal(t, "BUSAN", *rec.POL)
	require.Equal(t, "25-12-2025", *rec.ETA)
	require.Equal(t, 3, *rec.CntCount)
	require.Equal(t, "EVER GIVEN / 0123E", *rec.Vessel)
	require.Nil(t, rec.EmptyRelease, "unparseable dates stay null")
	require.Nil(t, rec.POD, "unscraped fields stay null")
}

func TestBuildRecord_IgnoresBadNumbersAndBlanks(t *testing.T) {
	t.Parallel()

	rec := BuildRecord("BL123", StatusSuccess, Fields{
		FieldCntCount: "three",
		FieldPOD:      "   ",
	})
	require.Nil(t, rec.CntCount)
	require.Nil(t, rec.POD)
}

func TestApplyCapabilityMask_NullsUndeclaredFields(t *testing.T) {
	t.Parallel()

	rec := BuildRecord("BL123", StatusSuccess, Fields{
		FieldPOL:      "BUSAN",
		FieldPOD:      "ROTTERDAM",
		FieldVessel:   "HMM ALGECIRAS",
		FieldCntCount: "2",
	})
	ApplyCapabilityMask(&rec, []Field{FieldPOL, FieldPOD})

	require.NotNil(t, rec.POL)
	require.NotNil(t, rec.POD)
	require.Nil(t, rec.Vessel)
	require.Nil(t, rec.CntCount)
}

func TestApplyCapabilityMask_NeverTouchesKeyFields(t *testing.T) {
	t.Parallel()

	rec := BuildRecord("BL123", StatusError, nil)
	ApplyCapabilityMask(&rec, nil)
	require.Equal(t, "BL123", rec.ID)
	require.Equal(t, StatusError, rec.Status)
}

func TestRow_RendersInSchemaOrder(t *testing.T) {
	t.Parallel()

	rec := BuildRecord("BL123", StatusSuccess, Fields{
		FieldPOL:      "BUSAN",
		FieldCntCount: "2",
	})
	row := rec.Row()
	require.Len(t, row, len(Columns))
	require.Equal(t, "BL123", row[0])
	require.Equal(t, string(StatusSuccess), row[1])
	require.Equal(t, "BUSAN", row[2])

	countIdx := -1
	for i, col := range Columns {
		if col.Field == FieldCntCount {
			countIdx = i
		}
	}
	require.Equal(t, "2", row[countIdx])
}

func TestArg_NullableDriverValues(t *testing.T) {
	t.Parallel()

	rec := BuildRecord("BL123", StatusSuccess, Fields{
		FieldPOL:      "BUSAN",
		FieldCntCount: "2",
	})
	require.Equal(t, "BL123", rec.Arg(FieldBL))
	require.Equal(t, "Success", rec.Arg(FieldStatus))
	require.Equal(t, "BUSAN", rec.Arg(FieldPOL))
	require.Equal(t, int64(2), rec.Arg(FieldCntCount))
	require.Nil(t, rec.Arg(FieldVessel))
}

func TestHeader_MatchesColumnOrder(t *testing.T) {
	t.Parallel()

	h := Header()
	require.Len(t, h, len(Columns))
	require.Equal(t, "BL", h[0])
	require.Equal(t, "Status", h[1])
}
