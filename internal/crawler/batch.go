package crawler

import (
	"context"

	"go.uber.org/zap"

	"tours365/internal/model"
	"tours365/internal/observability"
)

// DefaultBatchSize is the largest bulk lookup sent in one request.
const DefaultBatchSize = 100

// Batches splits codes into consecutive groups of at most size.
func Batches(codes []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]string
	for i := 0; i < len(codes); i += size {
		end := i + size
		if end > len(codes) {
			end = len(codes)
		}
		out = append(out, codes[i:end])
	}
	return out
}

// CrawlBatch fetches codes batch by batch. A failed batch is logged and
// skipped; the number of failed batches is returned.
func CrawlBatch(ctx context.Context, f ProductFetcher, codes []string, batchSize int, handler func([]model.RawProduct), logger *zap.Logger) int {
	failed := 0
	for _, batch := range Batches(codes, batchSize) {
		if ctx.Err() != nil {
			logger.Warn("[Crawler] stopped before all batches", zap.Error(ctx.Err()))
			return failed
		}

		products, err := f.FetchProductsByCodes(ctx, batch)
		if err != nil {
			failed++
			observability.PartnerFetchErrors.Inc()
			logger.Warn("[Crawler] batch failed",
				zap.Int("size", len(batch)),
				zap.String("first_code", batch[0]),
				zap.Error(err),
			)
			continue
		}

		handler(products)
	}
	return failed
}

// FetchAll collects every record CrawlBatch could fetch. It never fails:
// partner errors leave their batch out and an outage yields an empty slice.
func FetchAll(ctx context.Context, f ProductFetcher, codes []string, batchSize int, logger *zap.Logger) []model.RawProduct {
	all := make([]model.RawProduct, 0, len(codes))
	CrawlBatch(ctx, f, codes, batchSize, func(products []model.RawProduct) {
		all = append(all, products...)
	}, logger)
	return all
}
