package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tours365/internal/crawler"
	"tours365/internal/model"
	"tours365/internal/normalizer"
	"tours365/internal/observability"
)

// ErrEmptySnapshot is returned when nothing could be fetched, so an existing
// snapshot is not overwritten with an empty one.
var ErrEmptySnapshot = errors.New("snapshot has no listings")

const defaultWorkers = 4

// Archiver keeps raw partner payloads.
type Archiver interface {
	Save(ctx context.Context, p model.ArchivedProduct) error
}

// PageFetcher downloads a product page for operator enrichment.
type PageFetcher func(ctx context.Context, url string) (string, error)

// Builder is the offline job that turns a site's product codes into a snapshot.
type Builder struct {
	Fetcher    crawler.ProductFetcher
	Normalizer *normalizer.Normalizer
	Logger     *zap.Logger

	Workers   int
	BatchSize int

	// Optional stages.
	Archive Archiver
	Pages   PageFetcher
}

// Build fetches codes in concurrent batches, normalizes the records and
// returns the snapshot. Failed batches are skipped.
func (b *Builder) Build(ctx context.Context, codes []string) (model.Snapshot, error) {
	logger := b.logger()
	batches := crawler.Batches(codes, b.BatchSize)
	results := make([][]model.RawProduct, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())
	for i, batch := range batches {
		g.Go(func() error {
			products, err := b.Fetcher.FetchProductsByCodes(gctx, batch)
			if err != nil {
				observability.PartnerFetchErrors.Inc()
				logger.Warn("[Snapshot] batch failed",
					zap.Int("batch", i),
					zap.Int("size", len(batch)),
					zap.Error(err),
				)
				return nil
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	var raw []model.RawProduct
	for _, products := range results {
		raw = append(raw, products...)
	}

	if b.Archive != nil {
		b.archive(ctx, raw)
	}

	report := b.Normalizer.NormalizeReport(raw)
	dropped := make(map[string]int, len(report.Dropped))
	for reason, n := range report.Dropped {
		dropped[string(reason)] = n
	}
	observability.RecordNormalization(len(report.Summaries), dropped)
	logger.Info("[Snapshot] normalized",
		zap.Int("codes", len(codes)),
		zap.Int("fetched", len(raw)),
		zap.Int("kept", len(report.Summaries)),
		zap.Int("dropped", report.DroppedTotal()),
	)

	if len(report.Summaries) == 0 {
		return nil, ErrEmptySnapshot
	}

	if b.Pages != nil {
		b.enrich(ctx, report.Summaries)
	}

	return normalizer.ToSnapshot(report.Summaries), nil
}

// archive stores each raw payload. Errors are logged; they never stop the build.
func (b *Builder) archive(ctx context.Context, raw []model.RawProduct) {
	logger := b.logger()
	saved := 0
	for _, rec := range raw {
		payload, err := json.Marshal(rec)
		if err != nil {
			logger.Warn("[Snapshot] encode raw record", zap.Error(err))
			continue
		}
		code, _ := rec["productCode"].(string)
		url, _ := rec["productUrl"].(string)

		err = b.Archive.Save(ctx, model.ArchivedProduct{
			ID:          uuid.New().String(),
			ProductCode: code,
			SourceURL:   url,
			Payload:     payload,
		})
		if err != nil {
			logger.Warn("[Snapshot] archive failed", zap.String("code", code), zap.Error(err))
			continue
		}
		saved++
	}
	logger.Info("[Snapshot] archived raw records", zap.Int("saved", saved))
}

// enrich fills missing operator names from the public product pages.
func (b *Builder) enrich(ctx context.Context, summaries []model.Summary) {
	logger := b.logger()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())

	for i := range summaries {
		if summaries[i].Operator != "" {
			continue
		}
		g.Go(func() error {
			html, err := b.Pages(gctx, summaries[i].ProductURL)
			if err != nil {
				logger.Debug("[Snapshot] page fetch failed", zap.String("code", summaries[i].ProductCode), zap.Error(err))
				return nil
			}
			name, err := crawler.ParseOperator(html)
			if err != nil {
				logger.Debug("[Snapshot] page parse failed", zap.String("code", summaries[i].ProductCode), zap.Error(err))
				return nil
			}
			summaries[i].Operator = name
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Builder) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return defaultWorkers
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return zap.NewNop()
}
