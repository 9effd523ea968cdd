package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestResults_WritesQuotedCSV(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	rec := schema.BuildRecord("BL1", schema.StatusSuccess, schema.Fields{
		schema.FieldPOL:    "BUSAN",
		schema.FieldVessel: `EVER "GIVEN"`,
	})
	require.NoError(t, s.UpsertShipment(ctx, rec))

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, Results(ctx, s, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.Join(schema.Header(), ","), lines[0])
	require.Contains(t, lines[1], `"BL1"`)
	require.Contains(t, lines[1], `"BUSAN"`)
	require.Contains(t, lines[1], `"EVER ""GIVEN"""`, "embedded quotes are doubled")
	require.Contains(t, lines[1], `"",""`, "null fields render as quoted empties")
}

func TestResults_HeaderOnlyWhenEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, Results(ctx, s, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Join(schema.Header(), ",")+"\n", string(data))
}

func TestCarriers_WritesRegistry(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedDefaults(ctx))

	path := filepath.Join(t.TempDir(), "carriers.csv")
	require.NoError(t, Carriers(ctx, s, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Equal(t, "code,display_name,extractor_key,url,active", lines[0])
	require.Len(t, lines, 7)
	require.Contains(t, string(data), `"maersk"`)
	require.Contains(t, string(data), `"1"`)
}
