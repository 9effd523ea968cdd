// Package carriersync reconciles the local carrier registry against the
// remote authoritative list.
package carriersync

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/store"
	"github.com/freightwatch/bltracker/internal/track"
)

// remoteList is the authoritative registry document.
type remoteList struct {
	Version string       `json:"version"`
	Lines   []remoteLine `json:"lines"`
}

type remoteLine struct {
	Code         string `json:"code"`
	DisplayName  string `json:"display_name"`
	ExtractorKey string `json:"scraper_key"`
	URL          string `json:"url"`
	Active       int    `json:"active"`
}

// Syncer fetches and applies carrier registry updates.
type Syncer struct {
	client *resty.Client
	store  *store.Store
	logger *zap.Logger
}

// New builds a Syncer.
func New(client *resty.Client, st *store.Store, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{client: client, store: st, logger: logger}
}

// Sync fetches the remote list and upserts it into the registry when its
// version is newer than the locally recorded one. Carriers are upserted by
// extractor key and never deleted; a remote line with active=0 deactivates
// the local row.
func (s *Syncer) Sync(ctx context.Context, url string) error {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return eris.Wrap(err, "carriersync: fetch registry")
	}
	if resp.StatusCode() != 200 {
		return eris.Errorf("carriersync: fetch registry: HTTP %d", resp.StatusCode())
	}

	var remote remoteList
	if err := json.Unmarshal(resp.Body(), &remote); err != nil {
		return eris.Wrap(err, "carriersync: decode registry")
	}
	if remote.Version == "" {
		return eris.New("carriersync: registry document has no version")
	}

	local, err := s.store.RegistryVersion(ctx)
	if err != nil {
		return err
	}
	if CompareVersions(remote.Version, local) <= 0 {
		s.logger.Info("carrier registry up to date",
			zap.String("local", local),
			zap.String("remote", remote.Version),
		)
		return nil
	}

	carriers := make([]track.Carrier, 0, len(remote.Lines))
	for _, l := range remote.Lines {
		carriers = append(carriers, track.Carrier{
			Code:         l.Code,
			DisplayName:  l.DisplayName,
			ExtractorKey: strings.ToLower(strings.TrimSpace(l.ExtractorKey)),
			TrackingURL:  l.URL,
			Active:       l.Active != 0,
		})
	}
	if err := s.store.UpsertCarriers(ctx, carriers); err != nil {
		return err
	}
	if err := s.store.SetRegistryVersion(ctx, remote.Version); err != nil {
		return err
	}

	s.logger.Info("carrier registry updated",
		zap.String("from", local),
		zap.String("to", remote.Version),
		zap.Int("lines", len(carriers)),
	)
	return nil
}

// CompareVersions compares two dotted numeric versions: 1 when a > b, -1
// when a < b, 0 when equal. Missing segments count as zero.
func CompareVersions(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		na := segment(pa, i)
		nb := segment(pb, i)
		if na > nb {
			return 1
		}
		if na < nb {
			return -1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return n
}
