package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"tours365/internal/model"
	"tours365/internal/normalizer"
	"tours365/internal/observability"
)

// ArchiveReader lists archived raw payloads that have not been replayed yet.
type ArchiveReader interface {
	List(ctx context.Context) ([]model.ArchivedProduct, error)
	MarkAsProcessed(ctx context.Context, productCode string) error
}

// Replay rebuilds a snapshot for codes from archived payloads instead of the
// partner API. Payloads used are marked processed; other sites' rows are left alone.
func Replay(ctx context.Context, archive ArchiveReader, n *normalizer.Normalizer, codes []string, logger *zap.Logger) (model.Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pending, err := archive.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}

	var (
		raw  []model.RawProduct
		used []string
	)
	for _, p := range pending {
		if !wanted[p.ProductCode] {
			continue
		}
		var rec model.RawProduct
		if err := json.Unmarshal(p.Payload, &rec); err != nil {
			logger.Warn("[Snapshot] undecodable archived payload", zap.String("code", p.ProductCode), zap.Error(err))
			continue
		}
		raw = append(raw, rec)
		used = append(used, p.ProductCode)
	}

	report := n.NormalizeReport(raw)
	dropped := make(map[string]int, len(report.Dropped))
	for reason, c := range report.Dropped {
		dropped[string(reason)] = c
	}
	observability.RecordNormalization(len(report.Summaries), dropped)

	if len(report.Summaries) == 0 {
		return nil, ErrEmptySnapshot
	}

	for _, code := range used {
		if err := archive.MarkAsProcessed(ctx, code); err != nil {
			logger.Warn("[Snapshot] mark processed failed", zap.String("code", code), zap.Error(err))
		}
	}
	logger.Info("[Snapshot] replayed archive",
		zap.Int("pending", len(pending)),
		zap.Int("used", len(used)),
		zap.Int("kept", len(report.Summaries)),
	)
	return normalizer.ToSnapshot(report.Summaries), nil
}
