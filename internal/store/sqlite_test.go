package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestUpsertShipment_InsertAndOverwrite(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	first := schema.BuildRecord("BL1", schema.StatusSuccess, schema.Fields{
		schema.FieldPOL:      "BUSAN",
		schema.FieldVessel:   "HMM ALGECIRAS",
		schema.FieldCntCount: "2",
	})
	require.NoError(t, s.UpsertShipment(ctx, first))

	// Re-tracking overwrites every non-key column, including back to null.
	second := schema.BuildRecord("BL1", schema.StatusSuccess, schema.Fields{
		schema.FieldPOL: "INCHEON",
	})
	require.NoError(t, s.UpsertShipment(ctx, second))

	records, err := s.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "INCHEON", *records[0].POL)
	require.Nil(t, records[0].Vessel)
	require.Nil(t, records[0].CntCount)
}

func TestUpsertShipment_RequiresID(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	err := s.UpsertShipment(context.Background(), schema.Record{})
	require.Error(t, err)
}

func TestUpsertShipment_ErrorRecordKeepsReason(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	rec := schema.BuildRecord("BL2", schema.StatusError, nil)
	rec.SetText(schema.FieldLastEvent, "Shipping line not found")
	require.NoError(t, s.UpsertShipment(ctx, rec))

	records, err := s.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, schema.StatusError, records[0].Status)
	require.Equal(t, "Shipping line not found", *records[0].LastEvent)
}

func TestResetResults_LeavesSentinelRow(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"BL1", "BL2", "BL3"} {
		require.NoError(t, s.UpsertShipment(ctx, schema.BuildRecord(id, schema.StatusSuccess, nil)))
	}
	require.NoError(t, s.ResetResults(ctx))

	records, err := s.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "-", records[0].ID)
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSeedDefaults_SkipsExisting(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedDefaults(ctx))
	require.NoError(t, s.SeedDefaults(ctx))

	carriers, err := s.ListCarriers(ctx)
	require.NoError(t, err)
	require.Len(t, carriers, 6)
}

func TestActiveCarrier_ResolvesAndFiltersInactive(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedDefaults(ctx))

	c, err := s.ActiveCarrier(ctx, "maersk")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, "MAE", c.Code)

	require.NoError(t, s.UpsertCarriers(ctx, []track.Carrier{
		{Code: "MAE", DisplayName: "Maersk", ExtractorKey: "maersk", TrackingURL: c.TrackingURL, Active: false},
	}))
	c, err = s.ActiveCarrier(ctx, "maersk")
	require.NoError(t, err)
	require.Nil(t, c)

	c, err = s.ActiveCarrier(ctx, "nosuch")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestUpsertCarriers_UpdatesByExtractorKey(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedDefaults(ctx))

	require.NoError(t, s.UpsertCarriers(ctx, []track.Carrier{
		{Code: "MSC", DisplayName: "MSC Mediterranean", ExtractorKey: "msc", TrackingURL: "https://example.test/msc", Active: true},
	}))

	c, err := s.ActiveCarrier(ctx, "msc")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, "MSC Mediterranean", c.DisplayName)
	require.Equal(t, "https://example.test/msc", c.TrackingURL)

	carriers, err := s.ListCarriers(ctx)
	require.NoError(t, err)
	require.Len(t, carriers, 6, "upsert must not duplicate rows")
}

func TestInitialized_FalseUntilMarked(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	done, err := s.Initialized(ctx)
	require.NoError(t, err)
	require.False(t, done)

	require.NoError(t, s.MarkInitialized(ctx))
	require.NoError(t, s.MarkInitialized(ctx))

	done, err = s.Initialized(ctx)
	require.NoError(t, err)
	require.True(t, done)
}

func TestRegistryVersion_DefaultAndRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.RegistryVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "0.0.0", v)

	require.NoError(t, s.SetRegistryVersion(ctx, "1.4.2"))
	v, err = s.RegistryVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.4.2", v)
}
