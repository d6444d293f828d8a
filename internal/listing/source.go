package listing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tours365/internal/cache"
	"tours365/internal/crawler"
	"tours365/internal/model"
	"tours365/internal/normalizer"
	"tours365/internal/observability"
	"tours365/internal/site"
	"tours365/internal/snapshot"
)

// Source yields summaries for a site's product codes. It never fails: a
// broken collaborator yields fewer summaries or none.
type Source interface {
	Summaries(ctx context.Context, s *site.Site, codes []string) []model.Summary
}

// SnapshotStore returns the stored snapshot of a site.
type SnapshotStore interface {
	Load(ctx context.Context, siteID string) (model.Snapshot, error)
}

// Holders serves snapshots kept in memory, one per site id.
type Holders map[string]*snapshot.Holder

func (h Holders) Load(_ context.Context, siteID string) (model.Snapshot, error) {
	holder, ok := h[siteID]
	if !ok {
		return nil, fmt.Errorf("no snapshot loaded for site %s", siteID)
	}
	return holder.Get(), nil
}

// Cache is the subset of cache.ListingCache the live source needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.Summary, bool)
	Set(ctx context.Context, key string, summaries []model.Summary) error
}

// NormalizerFor renders prices in the site's currency.
func NormalizerFor(s *site.Site) *normalizer.Normalizer {
	return normalizer.NewNormalizer(normalizer.Config{
		DefaultCurrency: s.Currency,
		CurrencySymbols: s.CurrencySymbols(),
	})
}

// SnapshotSource reads pre-normalized entries; no price or image logic runs.
type SnapshotSource struct {
	Store  SnapshotStore
	Logger *zap.Logger
}

func (src *SnapshotSource) Summaries(ctx context.Context, s *site.Site, codes []string) []model.Summary {
	snap, err := src.Store.Load(ctx, s.ID)
	if err != nil {
		logger(src.Logger).Warn("[Listing] snapshot unavailable", zap.String("site", s.ID), zap.Error(err))
		return []model.Summary{}
	}
	return NormalizerFor(s).FromSnapshot(snap, codes)
}

// LiveSource fetches from the partner API, normalizes, and caches the result.
// When the fetch yields nothing it falls back to Fallback, then to empty.
type LiveSource struct {
	Fetcher   crawler.ProductFetcher
	BatchSize int
	Cache     Cache
	Fallback  Source
	Logger    *zap.Logger
}

func (src *LiveSource) Summaries(ctx context.Context, s *site.Site, codes []string) []model.Summary {
	log := logger(src.Logger)
	key := cache.Key(s.ID, codes)
	if src.Cache != nil {
		if summaries, ok := src.Cache.Get(ctx, key); ok {
			return summaries
		}
	}

	raw := crawler.FetchAll(ctx, src.Fetcher, codes, src.BatchSize, log)
	report := NormalizerFor(s).NormalizeReport(raw)
	observability.RecordNormalization(len(report.Summaries), droppedByReason(report))

	if len(report.Summaries) == 0 {
		log.Warn("[Listing] live fetch returned nothing", zap.String("site", s.ID), zap.Int("codes", len(codes)))
		if src.Fallback != nil {
			return src.Fallback.Summaries(ctx, s, codes)
		}
		return []model.Summary{}
	}

	summaries := inCodeOrder(report.Summaries, codes)
	if src.Cache != nil {
		if err := src.Cache.Set(ctx, key, summaries); err != nil {
			log.Warn("[Listing] cache write failed", zap.String("site", s.ID), zap.Error(err))
		}
	}
	return summaries
}

// inCodeOrder orders summaries as codes lists them; the partner answers in its own order.
// Summaries for codes not in the list keep their relative order at the end.
func inCodeOrder(summaries []model.Summary, codes []string) []model.Summary {
	rank := make(map[string]int, len(codes))
	for i, c := range codes {
		if _, ok := rank[c]; !ok {
			rank[c] = i
		}
	}

	buckets := make([][]model.Summary, len(codes)+1)
	for _, sum := range summaries {
		i, ok := rank[sum.ProductCode]
		if !ok {
			i = len(codes)
		}
		buckets[i] = append(buckets[i], sum)
	}

	out := make([]model.Summary, 0, len(summaries))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

func droppedByReason(r normalizer.Report) map[string]int {
	out := make(map[string]int, len(r.Dropped))
	for reason, n := range r.Dropped {
		out[string(reason)] = n
	}
	return out
}

func logger(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return zap.NewNop()
}
