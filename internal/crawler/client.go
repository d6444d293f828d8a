package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tours365/internal/model"
)

const (
	bulkPath   = "/partner/products/bulk"
	acceptJSON = "application/json;version=2.0"
)

var httpClient = &http.Client{
	Timeout: 60 * time.Second,
}

// ProductFetcher returns raw partner records for a batch of product codes.
type ProductFetcher interface {
	FetchProductsByCodes(ctx context.Context, codes []string) ([]model.RawProduct, error)
}

// Client talks to the partner product-catalog API.
type Client struct {
	BaseURL  string
	APIKey   string
	Language string
	HTTP     *http.Client
}

func NewClient(baseURL, apiKey, language string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Language: language,
		HTTP:     httpClient,
	}
}

type bulkRequest struct {
	ProductCodes []string `json:"productCodes"`
}

// FetchProductsByCodes posts one bulk lookup. Records come back undecoded beyond generic JSON.
func (c *Client) FetchProductsByCodes(ctx context.Context, codes []string) ([]model.RawProduct, error) {
	body, err := json.Marshal(bulkRequest{ProductCodes: codes})
	if err != nil {
		return nil, fmt.Errorf("encode bulk request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+bulkPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build bulk request: %w", err)
	}
	c.setHeaders(req)

	var products []model.RawProduct
	if err := c.do(req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("exp-api-key", c.APIKey)
	req.Header.Set("Accept", acceptJSON)
	req.Header.Set("Content-Type", "application/json")
	if c.Language != "" {
		req.Header.Set("Accept-Language", c.Language)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	client := c.HTTP
	if client == nil {
		client = httpClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("partner request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("partner status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode partner response: %w", err)
	}
	return nil
}
