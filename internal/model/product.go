package model

// RawProduct is one partner product record exactly as decoded from JSON.
// Nothing about its shape is trusted; the normalizer probes it field by field.
type RawProduct map[string]any

// Summary is the display-ready form of one partner listing.
type Summary struct {
	ProductCode      string   `json:"productCode"`
	Title            string   `json:"title"`
	ProductURL       string   `json:"productUrl"` // affiliate link, passed through untouched
	FromPriceDisplay string   `json:"fromPriceDisplay"`
	FromPrice        *float64 `json:"fromPrice,omitempty"`
	ReviewCount      int      `json:"reviewCount"`
	Rating           float64  `json:"rating"`
	ImageURL         *string  `json:"imageUrl"`
	FreeCancellation bool     `json:"freeCancellation"`
	Operator         string   `json:"operator,omitempty"`
}

// ArchivedProduct is a raw partner payload kept for replay and audits.
type ArchivedProduct struct {
	ID          string
	ProductCode string
	SourceURL   string
	Payload     []byte
}
