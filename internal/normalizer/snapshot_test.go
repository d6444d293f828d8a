package normalizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"tours365/internal/model"
)

func TestFromSnapshot(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	img := "https://cdn.example.com/castle.jpg"
	snap := model.Snapshot{
		"A1": {Title: "Castle Walk", FromPriceDisplay: "Price from $45", Rating: 4.7, ReviewCount: 310, ImageURL: &img, FreeCancellation: true, ProductURL: "https://example.com/a1"},
		"B2": {Title: " ", FromPriceDisplay: "", ReviewCount: -4, ProductURL: "https://example.com/b2"},
		"C3": {Title: "No link", ProductURL: "  "},
	}

	got := n.FromSnapshot(snap, []string{"B2", "missing", "A1", "C3", ""})

	want := []model.Summary{
		{ProductCode: "B2", Title: DefaultFallbackTitle, ProductURL: "https://example.com/b2", FromPriceDisplay: FallbackPriceDisplay},
		{ProductCode: "A1", Title: "Castle Walk", ProductURL: "https://example.com/a1", FromPriceDisplay: "Price from $45", Rating: 4.7, ReviewCount: 310, ImageURL: &img, FreeCancellation: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromSnapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSnapshot_EmptyInputs(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	assert.Empty(t, n.FromSnapshot(nil, []string{"A1"}))
	assert.NotNil(t, n.FromSnapshot(model.Snapshot{}, nil))
}

func TestToSnapshot_FirstCodeWins(t *testing.T) {
	price := 45.0
	snap := ToSnapshot([]model.Summary{
		{ProductCode: "A1", Title: "First", FromPrice: &price, ProductURL: "https://example.com/1"},
		{ProductCode: "A1", Title: "Second", ProductURL: "https://example.com/2"},
		{ProductCode: "B2", Title: "Other", ProductURL: "https://example.com/b2", Operator: "Prague Walks"},
	})

	assert.Len(t, snap, 2)
	assert.Equal(t, "First", snap["A1"].Title)
	assert.Equal(t, "Prague Walks", snap["B2"].Operator)
}

func TestSnapshotRoundTripKeepsDisplayFields(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	raw := []model.RawProduct{
		active(map[string]any{
			"title":       "Old Town Walk",
			"pricingInfo": map[string]any{"priceFrom": 44.6},
			"reviews":     map[string]any{"totalReviews": 12.0, "combinedAverageRating": 4.5},
		}),
	}

	summaries := n.Normalize(raw)
	back := n.FromSnapshot(ToSnapshot(summaries), []string{"5563P1"})

	// The numeric price is not persisted.
	want := summaries[0]
	want.FromPrice = nil
	if diff := cmp.Diff([]model.Summary{want}, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
