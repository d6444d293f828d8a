package snapshot

import (
	"fmt"
	"sort"

	"github.com/parquet-go/parquet-go"

	"tours365/internal/catalog"
	"tours365/internal/model"
)

// ListingRow is the flat analytics layout of one snapshot entry.
type ListingRow struct {
	Site             string  `parquet:"site"`
	ProductCode      string  `parquet:"product_code"`
	Title            string  `parquet:"title"`
	FromPriceDisplay string  `parquet:"from_price_display"`
	FromPrice        float64 `parquet:"from_price"`
	HasPrice         bool    `parquet:"has_price"`
	Rating           float64 `parquet:"rating"`
	ReviewCount      int64   `parquet:"review_count"`
	ImageURL         string  `parquet:"image_url"`
	FreeCancellation bool    `parquet:"free_cancellation"`
	ProductURL       string  `parquet:"product_url"`
	Operator         string  `parquet:"operator"`
}

// Rows flattens a snapshot, ordered by product code.
func Rows(site string, snap model.Snapshot) []ListingRow {
	codes := make([]string, 0, len(snap))
	for code := range snap {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([]ListingRow, 0, len(codes))
	for _, code := range codes {
		e := snap[code]
		price, ok := catalog.ParsePrice(e.FromPriceDisplay)
		row := ListingRow{
			Site:             site,
			ProductCode:      code,
			Title:            e.Title,
			FromPriceDisplay: e.FromPriceDisplay,
			FromPrice:        price,
			HasPrice:         ok,
			Rating:           e.Rating,
			ReviewCount:      int64(e.ReviewCount),
			FreeCancellation: e.FreeCancellation,
			ProductURL:       e.ProductURL,
			Operator:         e.Operator,
		}
		if e.ImageURL != nil {
			row.ImageURL = *e.ImageURL
		}
		rows = append(rows, row)
	}
	return rows
}

// ExportParquet writes the snapshot as a parquet file for analytics.
func ExportParquet(path, site string, snap model.Snapshot) error {
	if err := parquet.WriteFile(path, Rows(site, snap)); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}
