package crawler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours365/internal/model"
)

func TestClient_FetchProductsByCodes(t *testing.T) {
	var got bulkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, bulkPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("exp-api-key"))
		assert.Equal(t, acceptJSON, r.Header.Get("Accept"))
		assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"productCode":"5563P1","status":"ACTIVE","pricingInfo":{"priceFrom":44.6}}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", "en-US")
	products, err := c.FetchProductsByCodes(context.Background(), []string{"5563P1", "7781P2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"5563P1", "7781P2"}, got.ProductCodes)
	require.Len(t, products, 1)
	assert.Equal(t, "5563P1", products[0]["productCode"])
	assert.Equal(t, 44.6, products[0]["pricingInfo"].(map[string]any)["priceFrom"])
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", "").FetchProductsByCodes(context.Background(), []string{"A"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "partner status 429")
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", "").FetchProductsByCodes(context.Background(), []string{"A"})
	assert.ErrorContains(t, err, "decode partner response")
}

func TestClient_SearchByDestination(t *testing.T) {
	var starts []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "462", req.Filtering.Destination)
		starts = append(starts, req.Pagination.Start)

		resp := searchResponse{TotalCount: searchPageSize + 2}
		n := searchPageSize
		if req.Pagination.Start > 1 {
			n = 2
		}
		for i := 0; i < n; i++ {
			resp.Products = append(resp.Products, model.RawProduct{"productCode": "X"})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	total := 0
	err := NewClient(srv.URL, "k", "en").SearchByDestination(context.Background(), "462", "USD", func(products []model.RawProduct) {
		total += len(products)
	})

	require.NoError(t, err)
	assert.Equal(t, searchPageSize+2, total)
	assert.Equal(t, []int{1, searchPageSize + 1}, starts)
}
