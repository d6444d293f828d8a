package model

// SnapshotEntry is one record of the offline snapshot file, keyed by product code.
type SnapshotEntry struct {
	Title            string  `json:"title"`
	FromPriceDisplay string  `json:"fromPriceDisplay"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"reviewCount"`
	ImageURL         *string `json:"imageUrl"`
	FreeCancellation bool    `json:"freeCancellation"`
	ProductURL       string  `json:"productUrl"`
	Operator         string  `json:"operator,omitempty"`
}

// Snapshot maps product code to its pre-normalized entry.
type Snapshot map[string]SnapshotEntry
