package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"tours365/internal/catalog"
)

const maxTitleWidth = 48

var tableHeader = []string{"#", "CODE", "PILLAR", "TITLE", "PRICE", "RATING", "REVIEWS", "FREE CXL"}

// writeTable prints one result page as an aligned text table. Column widths
// use display width so accented and CJK titles line up.
func writeTable(w io.Writer, res catalog.Result, pageSize int) error {
	rows := [][]string{tableHeader}
	offset := (res.EffectivePage - 1) * pageSize
	for i, e := range res.Page {
		s := e.Summary
		cxl := ""
		if s.FreeCancellation {
			cxl = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprint(offset + i + 1),
			s.ProductCode,
			e.Category,
			runewidth.Truncate(s.Title, maxTitleWidth, "…"),
			s.FromPriceDisplay,
			fmt.Sprintf("%.1f", s.Rating),
			fmt.Sprint(s.ReviewCount),
			cxl,
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\npage %d of %d, %d listings\n", res.EffectivePage, res.TotalPages, res.TotalCount)
	return err
}
