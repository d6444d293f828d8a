package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours365/internal/model"
)

const sampleYAML = `
sites:
  - id: prg365
    name: Prg365
    currency: usd
    destination: "462"
    snapshot: data/prg365.json
    pillars:
      - slug: walking-tours
        title: Walking Tours
        products: ["5563P1", "7781P2"]
      - slug: river-cruises
        title: River Cruises
        products: ["9001P3", "5563P1"]
  - id: aru365
    name: Aru365
    currency: AWG
    symbol: "Afl. "
    pillars:
      - slug: snorkeling
        products: ["1100Z1"]
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"aru365", "prg365"}, reg.IDs())

	prg, ok := reg.Get("prg365")
	require.True(t, ok)
	assert.Equal(t, "USD", prg.Currency)
	assert.Equal(t, []string{"5563P1", "7781P2", "9001P3"}, prg.Codes())

	p, ok := prg.Pillar("river-cruises")
	require.True(t, ok)
	assert.Equal(t, "River Cruises", p.Title)

	_, ok = prg.Pillar("food")
	assert.False(t, ok)

	_, ok = reg.Get("nope")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, reg.Sites, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read sites file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{name: "no sites", yaml: `sites: []`, want: ErrNoSites},
		{name: "missing id", yaml: `sites: [{name: x}]`, want: ErrSiteMissingID},
		{
			name: "duplicate site",
			yaml: `sites: [{id: a, pillars: [{slug: s, products: [x]}]}, {id: a}]`,
			want: ErrDuplicateSite,
		},
		{name: "pillar without slug", yaml: `sites: [{id: a, pillars: [{products: [x]}]}]`, want: ErrPillarMissingSlug},
		{
			name: "duplicate pillar",
			yaml: `sites: [{id: a, pillars: [{slug: s, products: [x]}, {slug: s, products: [y]}]}]`,
			want: ErrDuplicatePillar,
		},
		{name: "empty pillar", yaml: `sites: [{id: a, pillars: [{slug: s}]}]`, want: ErrPillarWithoutCodes},
		{name: "bad currency", yaml: `sites: [{id: a, currency: dollars}]`, want: ErrInvalidCurrencyCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSite_Entries(t *testing.T) {
	reg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	prg, _ := reg.Get("prg365")

	entries := prg.Entries([]model.Summary{
		{ProductCode: "9001P3", Title: "Cruise"},
		{ProductCode: "5563P1", Title: "Walk"},
	})

	var got []string
	for _, e := range entries {
		got = append(got, e.Category+":"+e.Summary.ProductCode)
	}
	assert.Equal(t, []string{"walking-tours:5563P1", "river-cruises:9001P3", "river-cruises:5563P1"}, got)
}

func TestSite_CurrencySymbols(t *testing.T) {
	reg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	aru, _ := reg.Get("aru365")
	assert.Equal(t, map[string]string{"USD": "$", "AWG": "Afl. "}, aru.CurrencySymbols())

	prg, _ := reg.Get("prg365")
	assert.Equal(t, map[string]string{"USD": "$"}, prg.CurrencySymbols())
}
