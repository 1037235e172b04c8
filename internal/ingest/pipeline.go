package ingest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	config "github.com/clipdex/clipdex/internal/config/server"
	"github.com/clipdex/clipdex/pkg/db/models"
	"github.com/clipdex/clipdex/pkg/db/store"
	"github.com/clipdex/clipdex/pkg/log"
)

// ItemState tracks a manifest entry through the pipeline.
type ItemState int

const (
	StatePending ItemState = iota
	StateDownloading
	StateTranscoding
	StateCataloged
	StateSkippedDuplicate
	StateFailed
)

func (s ItemState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDownloading:
		return "downloading"
	case StateTranscoding:
		return "transcoding"
	case StateCataloged:
		return "cataloged"
	case StateSkippedDuplicate:
		return "skipped-duplicate"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Summary aggregates one pipeline run. Preview failures are counted
// separately from uploads because a video is cataloged even when its
// preview could not be produced.
type Summary struct {
	Processed        int
	Uploaded         int
	SkippedDuplicate int
	Malformed        int
	DownloadFailed   int
	TranscodeFailed  int
}

// result is what one worker hands back for one manifest entry.
type result struct {
	video           *models.Video
	skippedDup      bool
	malformed       bool
	downloadFailed  bool
	transcodeFailed bool
}

// Pipeline materializes catalog entries and WebP previews from a manifest.
// Reruns are idempotent: the video path is the duplicate key, so already
// committed items are skipped on replay.
type Pipeline struct {
	catalog    store.CatalogStore
	transcoder Transcoder
	client     *http.Client
	cfg        config.IngestServerConfig
	log        log.LoggerService
}

// New builds a pipeline over the catalog store. A nil transcoder falls back
// to ffmpeg with the configured quality.
func New(catalog store.CatalogStore, transcoder Transcoder, cfg config.IngestServerConfig, logger log.LoggerService) *Pipeline {
	if transcoder == nil {
		transcoder = &FFmpegTranscoder{Path: cfg.FFmpegPath, Quality: cfg.WebPQuality}
	}

	timeout, err := time.ParseDuration(cfg.DownloadTimeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Pipeline{
		catalog:    catalog,
		transcoder: transcoder,
		client:     &http.Client{Timeout: timeout},
		cfg:        cfg,
		log:        logger,
	}
}

// Run processes the manifest with a bounded worker pool. Items are
// independent; one item's failure never aborts the batch. Catalog writes are
// flushed in fixed-size batches, each in a single transaction.
func (p *Pipeline) Run(ctx context.Context, manifestPath string) (*Summary, error) {
	entries, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	if p.cfg.MaxItems > 0 && len(entries) > p.cfg.MaxItems {
		p.log.Info("Limiting run to %d of %d manifest entries", p.cfg.MaxItems, len(entries))
		entries = entries[:p.cfg.MaxItems]
	}

	for _, dir := range []string{p.cfg.WorkDir, p.cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	runID := uuid.New().String()
	p.log.Info("Starting ingestion run %s with %d entries", runID, len(entries))

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan Entry)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				results <- p.process(ctx, entry)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, entry := range entries {
			select {
			case jobs <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{}
	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	batch := make([]*models.Video, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		created, skipped, err := p.catalog.CreateVideoBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
		summary.Uploaded += created
		summary.SkippedDuplicate += skipped
		batch = batch[:0]
		return nil
	}

	for res := range results {
		summary.Processed++
		switch {
		case res.malformed:
			summary.Malformed++
			continue
		case res.skippedDup:
			summary.SkippedDuplicate++
			continue
		}

		if res.downloadFailed {
			summary.DownloadFailed++
		}
		if res.transcodeFailed {
			summary.TranscodeFailed++
		}

		// Video identity is independent of preview availability: the row is
		// written even when download or transcode failed.
		batch = append(batch, res.video)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}

	if err := flush(); err != nil {
		return summary, err
	}

	p.log.Info("Ingestion run %s complete: uploaded=%d skipped=%d malformed=%d download-failed=%d transcode-failed=%d",
		runID, summary.Uploaded, summary.SkippedDuplicate, summary.Malformed, summary.DownloadFailed, summary.TranscodeFailed)
	return summary, nil
}

// process moves one entry through the per-item state machine. Failures are
// recorded, not retried.
func (p *Pipeline) process(ctx context.Context, entry Entry) result {
	if !entry.Valid() {
		p.log.Warn("Skipping malformed manifest entry (name=%q url=%q)", entry.Name, entry.URL)
		return result{malformed: true}
	}

	exists, err := p.catalog.VideoExistsByPath(ctx, entry.URL)
	if err != nil {
		p.log.Error("Failed to check for duplicate of %s: %v", entry.URL, err)
		return result{malformed: true}
	}
	if exists {
		p.log.Debug("Skipping %s: already cataloged", entry.Name)
		return result{skippedDup: true}
	}

	res := result{video: &models.Video{Name: entry.Name, Path: entry.URL}}
	state := StateDownloading

	tmpPath := filepath.Join(p.cfg.WorkDir, uuid.New().String()+"_"+filepath.Base(entry.Name))
	defer os.Remove(tmpPath)

	if err := download(ctx, p.client, entry.URL, tmpPath); err != nil {
		p.log.Warn("Download of %s failed: %v", entry.Name, err)
		res.downloadFailed = true
		return res
	}

	state = StateTranscoding
	outPath := filepath.Join(p.cfg.OutputDir, previewName(entry.Name))
	if err := p.transcoder.Transcode(ctx, tmpPath, outPath); err != nil {
		p.log.Warn("Transcode of %s failed (state=%s): %v", entry.Name, state, err)
		res.transcodeFailed = true
		return res
	}

	p.log.Debug("Produced preview %s", outPath)
	return res
}

// previewName maps a video name to its WebP preview file name.
func previewName(name string) string {
	base := filepath.Base(name)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base + ".webp"
}
