package carriersync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

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

const registryDoc = `{
	"version": "1.1.0",
	"lines": [
		{"code": "MAE", "display_name": "Maersk Line", "scraper_key": "Maersk", "url": "https://example.test/maersk/", "active": 1},
		{"code": "HMM", "display_name": "HMM", "scraper_key": "hmm", "url": "https://example.test/hmm", "active": 0}
	]
}`

func TestSync_AppliesNewerRegistry(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(registryDoc))
	}))
	t.Cleanup(srv.Close)

	syncer := New(resty.New(), s, zap.NewNop())
	require.NoError(t, syncer.Sync(ctx, srv.URL))

	v, err := s.RegistryVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.1.0", v)

	c, err := s.ActiveCarrier(ctx, "maersk")
	require.NoError(t, err)
	require.NotNil(t, c, "scraper keys are lowercased on apply")
	require.Equal(t, "Maersk Line", c.DisplayName)

	inactive, err := s.ActiveCarrier(ctx, "hmm")
	require.NoError(t, err)
	require.Nil(t, inactive, "active=0 lines land deactivated")
}

func TestSync_SkipsOlderOrEqualVersion(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetRegistryVersion(ctx, "2.0.0"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(registryDoc))
	}))
	t.Cleanup(srv.Close)

	syncer := New(resty.New(), s, zap.NewNop())
	require.NoError(t, syncer.Sync(ctx, srv.URL))

	carriers, err := s.ListCarriers(ctx)
	require.NoError(t, err)
	require.Empty(t, carriers, "older remote list must not be applied")
}

func TestSync_RejectsBadResponses(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	cases := map[string]http.HandlerFunc{
		"http error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
		"missing version": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"lines": []}`))
		},
	}
	for name, handler := range cases {
		srv := httptest.NewServer(handler)
		syncer := New(resty.New(), s, zap.NewNop())
		require.Error(t, syncer.Sync(ctx, srv.URL), name)
		srv.Close()
	}
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, CompareVersions("1.2.0", "1.1.9"))
	require.Equal(t, -1, CompareVersions("1.2", "1.10"))
	require.Equal(t, 0, CompareVersions("1.2.0", "1.2"))
	require.Equal(t, 1, CompareVersions("2", "1.9.9"))
	require.Equal(t, 0, CompareVersions("", "0.0.0"))
}
