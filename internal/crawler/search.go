package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"tours365/internal/model"
)

const (
	searchPath     = "/partner/products/search"
	searchPageSize = 50
)

type searchRequest struct {
	Filtering  searchFilter     `json:"filtering"`
	Pagination searchPagination `json:"pagination"`
	Currency   string           `json:"currency,omitempty"`
}

type searchFilter struct {
	Destination string `json:"destination"`
}

type searchPagination struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

type searchResponse struct {
	Products   []model.RawProduct `json:"products"`
	TotalCount int                `json:"totalCount"`
}

// SearchByDestination pages through every product the partner lists for a
// destination and hands each page to handler. Used to curate pillar code lists.
func (c *Client) SearchByDestination(ctx context.Context, destination, currency string, handler func([]model.RawProduct)) error {
	start := 1
	for {
		body, err := json.Marshal(searchRequest{
			Filtering:  searchFilter{Destination: destination},
			Pagination: searchPagination{Start: start, Count: searchPageSize},
			Currency:   currency,
		})
		if err != nil {
			return fmt.Errorf("encode search request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+searchPath, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build search request: %w", err)
		}
		c.setHeaders(req)

		var page searchResponse
		if err := c.do(req, &page); err != nil {
			return fmt.Errorf("search destination %s at %d: %w", destination, start, err)
		}
		if len(page.Products) == 0 {
			return nil
		}
		handler(page.Products)

		// pagination is 1-based
		start += len(page.Products)
		if start > page.TotalCount {
			return nil
		}
	}
}
