package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FallbackPriceDisplay is shown when no price information resolves at all.
const FallbackPriceDisplay = "Price from (see options)"

const pricePrefix = "Price from "

// fromPricePattern recognises summaries that already read like "From €31.00" or "$44".
var fromPricePattern = regexp.MustCompile(`(?i)^\s*(?:from\s+)?\p{Sc}?\s?\d`)

// Numeric price fields in priority order. The first two are alternate names
// for the same direct "from" price.
var numericPriceFields = []string{"priceFrom", "fromPrice", "recommendedRetailPrice", "minPrice"}

// PriceSource records where a listing's price came from.
type PriceSource interface {
	priceSource()
}

// NumericPrice is a single price field that resolved to a number.
type NumericPrice struct {
	Field    string
	Amount   float64
	Currency string
}

// AgeBandMinimum is the cheapest of the per-age-band prices.
type AgeBandMinimum struct {
	Amounts  []float64
	Currency string
}

// TextSummary is a free-text price summary used when nothing numeric resolved.
type TextSummary struct {
	Text string
}

// UnknownPrice means the record carried no usable price information.
type UnknownPrice struct{}

func (NumericPrice) priceSource()   {}
func (AgeBandMinimum) priceSource() {}
func (TextSummary) priceSource()    {}
func (UnknownPrice) priceSource()   {}

// Min is the lowest amount across the age bands.
func (a AgeBandMinimum) Min() float64 {
	lowest := math.Inf(1)
	for _, v := range a.Amounts {
		lowest = math.Min(lowest, v)
	}
	return lowest
}

// ResolvePrice picks the first matching price representation from pricingInfo.
func ResolvePrice(pricing map[string]any, defaultCurrency string) PriceSource {
	currency := strings.ToUpper(strings.TrimSpace(str(pricing, "currency")))
	if currency == "" {
		currency = defaultCurrency
	}

	for _, field := range numericPriceFields {
		if amount, ok := number(pricing[field]); ok {
			return NumericPrice{Field: field, Amount: amount, Currency: currency}
		}
	}

	if amounts := ageBandAmounts(pricing["ageBands"]); len(amounts) > 0 {
		return AgeBandMinimum{Amounts: amounts, Currency: currency}
	}

	if text := strings.TrimSpace(str(pricing, "summary")); text != "" {
		return TextSummary{Text: text}
	}

	return UnknownPrice{}
}

func ageBandAmounts(v any) []float64 {
	var amounts []float64
	for _, item := range array(v) {
		band := object(item)
		if amount, ok := number(band["recommendedRetailPrice"]); ok {
			amounts = append(amounts, amount)
			continue
		}
		if amount, ok := number(band["price"]); ok {
			amounts = append(amounts, amount)
		}
	}
	return amounts
}

// priceDisplay turns a resolved source into the card text and, when known, the numeric price.
func (n *Normalizer) priceDisplay(src PriceSource) (string, *float64) {
	switch p := src.(type) {
	case NumericPrice:
		return n.formatPrice(p.Amount, p.Currency), &p.Amount
	case AgeBandMinimum:
		lowest := p.Min()
		return n.formatPrice(lowest, p.Currency), &lowest
	case TextSummary:
		if fromPricePattern.MatchString(p.Text) {
			return p.Text, nil
		}
		return pricePrefix + p.Text, nil
	default:
		return FallbackPriceDisplay, nil
	}
}

func (n *Normalizer) formatPrice(amount float64, currency string) string {
	symbol, ok := n.cfg.CurrencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return pricePrefix + symbol + strconv.FormatFloat(math.Round(amount), 'f', 0, 64)
}
