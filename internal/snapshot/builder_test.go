package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"tours365/internal/model"
	"tours365/internal/normalizer"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
}

func (s *stubFetcher) FetchProductsByCodes(_ context.Context, codes []string) ([]model.RawProduct, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.fail[codes[0]] {
		return nil, errors.New("partner status 503")
	}
	out := make([]model.RawProduct, 0, len(codes))
	for _, c := range codes {
		out = append(out, model.RawProduct{
			"productCode": c,
			"status":      "ACTIVE",
			"title":       "Tour " + c,
			"productUrl":  "https://example.com/" + c,
			"pricingInfo": map[string]any{"priceFrom": 20.0},
		})
	}
	return out, nil
}

type memArchive struct {
	mu    sync.Mutex
	saved []model.ArchivedProduct
}

func (m *memArchive) Save(_ context.Context, p model.ArchivedProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, p)
	return nil
}

func codeList(n int) []string {
	codes := make([]string, n)
	for i := range codes {
		codes[i] = fmt.Sprintf("C%03d", i)
	}
	return codes
}

func TestBuilder_Build(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &stubFetcher{fail: map[string]bool{"C010": true}}
	archive := &memArchive{}
	b := &Builder{
		Fetcher:    f,
		Normalizer: normalizer.NewNormalizer(normalizer.DefaultConfig()),
		Logger:     zap.NewNop(),
		Workers:    3,
		BatchSize:  10,
		Archive:    archive,
	}

	snap, err := b.Build(context.Background(), codeList(35))
	require.NoError(t, err)

	assert.Equal(t, 4, f.calls)
	assert.Len(t, snap, 25, "the failed batch is skipped")
	assert.NotContains(t, snap, "C010")
	assert.Equal(t, "Price from $20", snap["C000"].FromPriceDisplay)

	require.Len(t, archive.saved, 25)
	assert.NotEmpty(t, archive.saved[0].ID)
	assert.Contains(t, string(archive.saved[0].Payload), `"productCode"`)
}

func TestBuilder_EmptyIsAnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := &Builder{
		Fetcher:    &stubFetcher{fail: map[string]bool{"C000": true}},
		Normalizer: normalizer.NewNormalizer(normalizer.DefaultConfig()),
	}

	_, err := b.Build(context.Background(), codeList(5))
	assert.ErrorIs(t, err, ErrEmptySnapshot)
}

func TestBuilder_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := &Builder{
		Fetcher:    &stubFetcher{},
		Normalizer: normalizer.NewNormalizer(normalizer.DefaultConfig()),
	}

	_, err := b.Build(ctx, codeList(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_EnrichesMissingOperators(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := &Builder{
		Fetcher:    &stubFetcher{fail: map[string]bool{}},
		Normalizer: normalizer.NewNormalizer(normalizer.DefaultConfig()),
		Pages: func(_ context.Context, url string) (string, error) {
			if url == "https://example.com/C001" {
				return "", errors.New("page status 404")
			}
			return `<meta name="operator" content="Old Town Guides">`, nil
		},
	}

	snap, err := b.Build(context.Background(), codeList(2))
	require.NoError(t, err)
	assert.Equal(t, "Old Town Guides", snap["C000"].Operator)
	assert.Equal(t, "", snap["C001"].Operator)
	assert.Equal(t, "https://example.com/C000", snap["C000"].ProductURL)
}
