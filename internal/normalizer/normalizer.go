// Package normalizer turns partner product records into display-ready listing summaries.
package normalizer

import (
	"math"
	"strings"

	"tours365/internal/model"
)

// ActiveStatus is the only lifecycle status whose records are shown.
const ActiveStatus = "ACTIVE"

// DefaultFallbackTitle labels a listing whose record has no title.
const DefaultFallbackTitle = "Tour"

// DropReason says why a raw record was left out of the output.
type DropReason string

const (
	DropInactive    DropReason = "inactive"
	DropMissingCode DropReason = "missing_code"
	DropMissingURL  DropReason = "missing_url"
)

// Config holds the display conventions used while normalizing.
type Config struct {
	DefaultCurrency string
	CurrencySymbols map[string]string
	TargetWidth     int
	FallbackTitle   string
}

// DefaultConfig renders USD prices with "$" and upscales images to 1024px.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: "USD",
		CurrencySymbols: map[string]string{"USD": "$"},
		TargetWidth:     DefaultTargetWidth,
		FallbackTitle:   DefaultFallbackTitle,
	}
}

// Report is the outcome of one normalization pass.
type Report struct {
	Summaries []model.Summary
	Dropped   map[DropReason]int
}

// DroppedTotal counts every excluded record.
func (r Report) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// Normalizer maps raw partner records to summaries. It holds no mutable state.
type Normalizer struct {
	cfg Config
}

// NewNormalizer creates a normalizer; zero config fields take their defaults.
func NewNormalizer(cfg Config) *Normalizer {
	def := DefaultConfig()
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = def.DefaultCurrency
	}
	cfg.DefaultCurrency = strings.ToUpper(cfg.DefaultCurrency)
	if cfg.CurrencySymbols == nil {
		cfg.CurrencySymbols = def.CurrencySymbols
	}
	if cfg.TargetWidth <= 0 {
		cfg.TargetWidth = def.TargetWidth
	}
	if cfg.FallbackTitle == "" {
		cfg.FallbackTitle = def.FallbackTitle
	}
	return &Normalizer{cfg: cfg}
}

// Normalize returns summaries for every usable record, in input order.
func (n *Normalizer) Normalize(raw []model.RawProduct) []model.Summary {
	return n.NormalizeReport(raw).Summaries
}

// NormalizeReport is Normalize plus a count of the records that were dropped.
func (n *Normalizer) NormalizeReport(raw []model.RawProduct) Report {
	report := Report{
		Summaries: make([]model.Summary, 0, len(raw)),
		Dropped:   make(map[DropReason]int),
	}
	for _, rec := range raw {
		summary, reason, ok := n.summarize(rec)
		if !ok {
			report.Dropped[reason]++
			continue
		}
		report.Summaries = append(report.Summaries, summary)
	}
	return report
}

func (n *Normalizer) summarize(rec model.RawProduct) (model.Summary, DropReason, bool) {
	if str(rec, "status") != ActiveStatus {
		return model.Summary{}, DropInactive, false
	}
	code := strings.TrimSpace(str(rec, "productCode"))
	if code == "" {
		return model.Summary{}, DropMissingCode, false
	}
	productURL := str(rec, "productUrl")
	if strings.TrimSpace(productURL) == "" {
		return model.Summary{}, DropMissingURL, false
	}

	display, price := n.priceDisplay(ResolvePrice(object(rec["pricingInfo"]), n.cfg.DefaultCurrency))
	reviewCount, rating := reviewStats(object(rec["reviews"]))

	return model.Summary{
		ProductCode:      code,
		Title:            n.title(str(rec, "title")),
		ProductURL:       productURL,
		FromPriceDisplay: display,
		FromPrice:        price,
		ReviewCount:      reviewCount,
		Rating:           rating,
		ImageURL:         ImageURL(ResolveImage(array(rec["images"]), n.cfg.TargetWidth)),
		FreeCancellation: freeCancellation(object(rec["cancellationPolicy"])),
		Operator:         strings.TrimSpace(str(object(rec["supplier"]), "name")),
	}, "", true
}

func (n *Normalizer) title(t string) string {
	if t = strings.TrimSpace(t); t != "" {
		return t
	}
	return n.cfg.FallbackTitle
}

// reviewStats reads the review count and the first numeric average rating.
func reviewStats(reviews map[string]any) (int, float64) {
	count := 0
	if v, ok := number(reviews["totalReviews"]); ok && v > 0 {
		count = int(min(v, math.MaxInt32))
	}
	for _, key := range []string{"combinedAverageRating", "averageRating"} {
		if v, ok := number(reviews[key]); ok {
			return count, v
		}
	}
	return count, 0
}

func freeCancellation(policy map[string]any) bool {
	text := str(policy, "type") + " " + str(policy, "description")
	return strings.Contains(strings.ToLower(text), "free")
}
