package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/common"
	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/httpclient"
	"github.com/aleister1102/futwatch/internal/models"
	"github.com/aleister1102/futwatch/internal/urlhandler"
)

// fetchMeta holds the cache validators remembered between polls of one target.
type fetchMeta struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// Fetcher polls targets with conditional GETs. Validators survive restarts
// via small per-target meta files so a relaunch does not refetch unchanged
// content.
type Fetcher struct {
	client  *httpclient.HTTPClient
	metaDir string
	logger  zerolog.Logger
}

// FetchOutcome is the result of polling one target.
type FetchOutcome struct {
	Snapshot    models.Snapshot
	NotModified bool
}

// NewFetcher creates a fetcher whose HTTP behavior follows the monitor config.
func NewFetcher(cfg config.MonitorConfig, metaDir string, logger zerolog.Logger) (*Fetcher, error) {
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return nil, common.WrapErrorf(err, "failed to create fetch meta directory '%s'", metaDir)
	}

	clientCfg := httpclient.DefaultHTTPClientConfig()
	clientCfg.Timeout = time.Duration(cfg.FetchTimeoutSecs) * time.Second
	clientCfg.UserAgent = cfg.UserAgent

	client, err := httpclient.NewHTTPClient(clientCfg, logger)
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP client")
	}
	client = client.WithRetryHandler(httpclient.NewRetryHandler(httpclient.DefaultRetryHandlerConfig(), logger))

	return &Fetcher{
		client:  client,
		metaDir: metaDir,
		logger:  logger.With().Str("module", "Fetcher").Logger(),
	}, nil
}

// Fetch polls one target. A 304 answer yields NotModified without a snapshot.
func (f *Fetcher) Fetch(ctx context.Context, target config.TargetConfig) (FetchOutcome, error) {
	meta := f.loadMeta(target.Name)

	result, err := f.client.FetchContent(httpclient.FetchContentInput{
		URL:                  target.URL,
		PreviousETag:         meta.ETag,
		PreviousLastModified: meta.LastModified,
		Context:              ctx,
	})
	if errors.Is(err, httpclient.ErrNotModified) {
		f.logger.Debug().Str("target", target.Name).Msg("Target not modified")
		return FetchOutcome{NotModified: true}, nil
	}
	if err != nil {
		return FetchOutcome{}, common.WrapErrorf(err, "failed to fetch target '%s'", target.Name)
	}

	f.saveMeta(target.Name, fetchMeta{ETag: result.ETag, LastModified: result.LastModified})

	return FetchOutcome{
		Snapshot: models.Snapshot{
			Target:     target.Name,
			CapturedAt: time.Now().UTC(),
			Kind:       target.ContentKind(),
			Raw:        result.Content,
		},
	}, nil
}

func (f *Fetcher) metaPath(target string) string {
	return filepath.Join(f.metaDir, urlhandler.SanitizeFilename(target)+".json")
}

func (f *Fetcher) loadMeta(target string) fetchMeta {
	var meta fetchMeta
	data, err := os.ReadFile(f.metaPath(target))
	if err != nil {
		return meta
	}
	// Corrupt meta just means an unconditional refetch.
	_ = json.Unmarshal(data, &meta)
	return meta
}

func (f *Fetcher) saveMeta(target string, meta fetchMeta) {
	if meta.ETag == "" && meta.LastModified == "" {
		_ = os.Remove(f.metaPath(target))
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := os.WriteFile(f.metaPath(target), data, 0644); err != nil {
		f.logger.Warn().Err(err).Str("target", target).Msg("Failed to persist fetch meta")
	}
}
