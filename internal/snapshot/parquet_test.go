package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prg365.parquet")

	require.NoError(t, ExportParquet(path, "prg365", sampleSnapshot()))

	rows, err := parquet.ReadFile[ListingRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "5563P1", rows[0].ProductCode)
	assert.Equal(t, "prg365", rows[0].Site)
	assert.True(t, rows[0].HasPrice)
	assert.InDelta(t, 45.0, rows[0].FromPrice, 1e-9)
	assert.Equal(t, int64(1280), rows[0].ReviewCount)
	assert.Equal(t, "https://cdn.example.com/castle_1024x768_a.jpg", rows[0].ImageURL)

	assert.Equal(t, "9001P3", rows[1].ProductCode)
	assert.False(t, rows[1].HasPrice)
	assert.Equal(t, "", rows[1].ImageURL)
}
