package snapshot

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours365/internal/model"
	"tours365/internal/normalizer"
)

type fakeArchive struct {
	rows      []model.ArchivedProduct
	listErr   error
	processed []string
}

// List returns only rows not yet marked processed, like the raw repository.
func (f *fakeArchive) List(context.Context) ([]model.ArchivedProduct, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var pending []model.ArchivedProduct
	for _, row := range f.rows {
		if !slices.Contains(f.processed, row.ProductCode) {
			pending = append(pending, row)
		}
	}
	return pending, nil
}

func (f *fakeArchive) MarkAsProcessed(_ context.Context, code string) error {
	f.processed = append(f.processed, code)
	return nil
}

func TestReplay(t *testing.T) {
	archive := &fakeArchive{rows: []model.ArchivedProduct{
		{ProductCode: "A1", Payload: []byte(`{"productCode":"A1","status":"ACTIVE","productUrl":"https://example.com/a1","pricingInfo":{"priceFrom":12}}`)},
		{ProductCode: "B2", Payload: []byte(`{"productCode":"B2","status":"INACTIVE","productUrl":"https://example.com/b2"}`)},
		{ProductCode: "C3", Payload: []byte(`not json`)},
		{ProductCode: "OTHER", Payload: []byte(`{"productCode":"OTHER","status":"ACTIVE","productUrl":"https://example.com/o"}`)},
	}}

	snap, err := Replay(context.Background(), archive, normalizer.NewNormalizer(normalizer.DefaultConfig()), []string{"A1", "B2", "C3"}, nil)
	require.NoError(t, err)

	assert.Len(t, snap, 1)
	assert.Equal(t, "Price from $12", snap["A1"].FromPriceDisplay)
	assert.Equal(t, []string{"A1", "B2"}, archive.processed)
}

func TestReplay_Errors(t *testing.T) {
	n := normalizer.NewNormalizer(normalizer.DefaultConfig())

	_, err := Replay(context.Background(), &fakeArchive{listErr: errors.New("connection refused")}, n, []string{"A1"}, nil)
	assert.ErrorContains(t, err, "list archive")

	archive := &fakeArchive{}
	_, err = Replay(context.Background(), archive, n, []string{"A1"}, nil)
	assert.ErrorIs(t, err, ErrEmptySnapshot)
	assert.Empty(t, archive.processed)
}

func TestReplay_ConsumesArchivedRows(t *testing.T) {
	n := normalizer.NewNormalizer(normalizer.DefaultConfig())
	archive := &fakeArchive{rows: []model.ArchivedProduct{
		{ProductCode: "A1", Payload: []byte(`{"productCode":"A1","status":"ACTIVE","productUrl":"https://example.com/a1"}`)},
	}}

	snap, err := Replay(context.Background(), archive, n, []string{"A1"}, nil)
	require.NoError(t, err)
	assert.Len(t, snap, 1)

	_, err = Replay(context.Background(), archive, n, []string{"A1"}, nil)
	assert.ErrorIs(t, err, ErrEmptySnapshot, "replayed rows are not offered again")
	assert.Equal(t, []string{"A1"}, archive.processed)
}
