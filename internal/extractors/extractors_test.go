package extractors

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/normalize"
	"github.com/freightwatch/bltracker/internal/schema"
)

func TestDefaults_RegistersBuiltins(t *testing.T) {
	t.Parallel()

	r := Defaults(zap.NewNop())
	require.Equal(t, []string{"evergreen", "kmtc", "maersk", "msc", "oneline", "sinokor"}, r.Keys())
}

func TestCapabilities_DeclareOnlySchemaFields(t *testing.T) {
	t.Parallel()

	r := Defaults(zap.NewNop())
	valid := make(map[schema.Field]bool)
	for _, col := range schema.Columns {
		valid[col.Field] = true
	}
	for _, key := range r.Keys() {
		ext, ok := r.Lookup(key)
		require.True(t, ok)
		caps := ext.Capabilities()
		require.NotEmpty(t, caps.Supports, "extractor %s", key)
		for _, f := range caps.Supports {
			require.True(t, valid[f], "extractor %s declares unknown field %s", key, f)
			require.NotEqual(t, schema.FieldBL, f)
			require.NotEqual(t, schema.FieldStatus, f)
		}
	}
}

func TestCapabilities_LastEventOnlyWhereHarvested(t *testing.T) {
	t.Parallel()

	r := Defaults(zap.NewNop())
	declares := func(key string) bool {
		ext, _ := r.Lookup(key)
		for _, f := range ext.Capabilities().Supports {
			if f == schema.FieldLastEvent {
				return true
			}
		}
		return false
	}
	require.True(t, declares("maersk"))
	require.True(t, declares("evergreen"))
	require.False(t, declares("kmtc"))
	require.False(t, declares("sinokor"))
	require.False(t, declares("msc"))
	require.False(t, declares("oneline"))
}

func TestSetIf_SkipsEmptyValues(t *testing.T) {
	t.Parallel()

	fields := schema.Fields{}
	setIf(fields, schema.FieldPOL, "")
	setIf(fields, schema.FieldPOD, "ROTTERDAM")
	require.NotContains(t, fields, schema.FieldPOL)
	require.Equal(t, "ROTTERDAM", fields[schema.FieldPOD])
}

func TestApplyMilestones_FillsDateFields(t *testing.T) {
	t.Parallel()

	fields := schema.Fields{}
	applyMilestones(fields, []normalize.RawEvent{
		{Label: "Gate out Empty", Date: "01-12-2025"},
		{Label: "Vessel departure", Date: "05-12-2025"},
		{Label: "Estimated arrival", Date: "28-12-2025"},
	})
	require.Equal(t, "01-12-2025", fields[schema.FieldEmptyRelease])
	require.Equal(t, "05-12-2025", fields[schema.FieldETD])
	require.Equal(t, "28-12-2025", fields[schema.FieldETA])
}

func TestApplyContainers_RendersSummary(t *testing.T) {
	t.Parallel()

	fields := schema.Fields{}
	applyContainers(fields, []string{"MSKU1234567", "MSKU7654321"}, []string{"40' DRY", "40' DRY"})
	require.Equal(t, "MSKU1234567 MSKU7654321", fields[schema.FieldCntNos])
	require.Equal(t, "2 x 40 D", fields[schema.FieldCntType])
	require.Equal(t, "2", fields[schema.FieldCntCount])
}

func TestApplyContainers_NoIDsLeavesFieldsUnset(t *testing.T) {
	t.Parallel()

	fields := schema.Fields{}
	applyContainers(fields, nil, []string{"40' DRY"})
	require.Empty(t, fields)
}

func TestLatestArrivalLeg_PicksNewestParseableETA(t *testing.T) {
	t.Parallel()

	legs := []kmtcLeg{
		{POD: "SHANGHAI", ETA: "2025.12.05 10:00", Vessel: "A"},
		{POD: "ROTTERDAM", ETA: "2025.12.28 08:00", Vessel: "B"},
		{POD: "UNKNOWN", ETA: "tba", Vessel: "C"},
	}
	require.Equal(t, "ROTTERDAM", latestArrivalLeg(legs).POD)
}

func TestLatestArrivalLeg_FallsBackToFirstLeg(t *testing.T) {
	t.Parallel()

	legs := []kmtcLeg{
		{POD: "BUSAN", ETA: ""},
		{POD: "SHANGHAI", ETA: "pending"},
	}
	require.Equal(t, "BUSAN", latestArrivalLeg(legs).POD)
}
