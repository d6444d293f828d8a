package normalizer

import (
	"strings"

	"tours365/internal/model"
)

// FromSnapshot reads pre-normalized snapshot entries for the given codes, in
// the order the codes are listed. Unknown codes and entries without a booking
// URL are skipped; price and image logic is not re-derived.
func (n *Normalizer) FromSnapshot(snap model.Snapshot, codes []string) []model.Summary {
	out := make([]model.Summary, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		entry, ok := snap[code]
		if !ok || code == "" || strings.TrimSpace(entry.ProductURL) == "" {
			continue
		}

		display := strings.TrimSpace(entry.FromPriceDisplay)
		if display == "" {
			display = FallbackPriceDisplay
		}
		reviews := entry.ReviewCount
		if reviews < 0 {
			reviews = 0
		}

		out = append(out, model.Summary{
			ProductCode:      code,
			Title:            n.title(entry.Title),
			ProductURL:       entry.ProductURL,
			FromPriceDisplay: display,
			ReviewCount:      reviews,
			Rating:           entry.Rating,
			ImageURL:         entry.ImageURL,
			FreeCancellation: entry.FreeCancellation,
			Operator:         entry.Operator,
		})
	}
	return out
}

// ToSnapshot builds the persisted snapshot layout. The first summary for a code wins.
func ToSnapshot(summaries []model.Summary) model.Snapshot {
	snap := make(model.Snapshot, len(summaries))
	for _, s := range summaries {
		if _, seen := snap[s.ProductCode]; seen {
			continue
		}
		snap[s.ProductCode] = model.SnapshotEntry{
			Title:            s.Title,
			FromPriceDisplay: s.FromPriceDisplay,
			Rating:           s.Rating,
			ReviewCount:      s.ReviewCount,
			ImageURL:         s.ImageURL,
			FreeCancellation: s.FreeCancellation,
			ProductURL:       s.ProductURL,
			Operator:         s.Operator,
		}
	}
	return snap
}
