// Package site loads the catalog of affiliate sites and their curated pillars.
package site

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"tours365/internal/catalog"
	"tours365/internal/model"
)

// Registry validation errors.
var (
	ErrNoSites             = errors.New("at least one site is required")
	ErrSiteMissingID       = errors.New("site id is required")
	ErrDuplicateSite       = errors.New("site id must be unique")
	ErrPillarMissingSlug   = errors.New("pillar slug is required")
	ErrDuplicatePillar     = errors.New("pillar slug must be unique within a site")
	ErrPillarWithoutCodes  = errors.New("pillar must list at least one product")
	ErrInvalidCurrencyCode = errors.New("currency must be a three-letter code")
)

// Registry is the parsed sites file.
type Registry struct {
	Sites []*Site `yaml:"sites"`

	byID map[string]*Site
}

// Site is one affiliate site.
type Site struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Currency    string   `yaml:"currency"`
	Symbol      string   `yaml:"symbol"`
	Destination string   `yaml:"destination"`
	Snapshot    string   `yaml:"snapshot"`
	Pillars     []Pillar `yaml:"pillars"`
}

// Pillar is a curated category: an ordered list of partner product codes.
type Pillar struct {
	Slug     string   `yaml:"slug"`
	Title    string   `yaml:"title"`
	Products []string `yaml:"products"`
}

// Load reads and validates a sites file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates sites YAML.
func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("sites validation failed: %w", err)
	}
	return &reg, nil
}

// Validate checks the registry and builds the id index.
func (r *Registry) Validate() error {
	if len(r.Sites) == 0 {
		return ErrNoSites
	}

	r.byID = make(map[string]*Site, len(r.Sites))
	for i, s := range r.Sites {
		if s == nil || strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("%w: sites[%d]", ErrSiteMissingID, i)
		}
		if _, dup := r.byID[s.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSite, s.ID)
		}

		s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
		if s.Currency == "" {
			s.Currency = "USD"
		}
		if len(s.Currency) != 3 {
			return fmt.Errorf("%w: %s", ErrInvalidCurrencyCode, s.ID)
		}

		slugs := make(map[string]bool, len(s.Pillars))
		for j, p := range s.Pillars {
			if strings.TrimSpace(p.Slug) == "" {
				return fmt.Errorf("%w: %s pillars[%d]", ErrPillarMissingSlug, s.ID, j)
			}
			if slugs[p.Slug] {
				return fmt.Errorf("%w: %s/%s", ErrDuplicatePillar, s.ID, p.Slug)
			}
			if len(p.Products) == 0 {
				return fmt.Errorf("%w: %s/%s", ErrPillarWithoutCodes, s.ID, p.Slug)
			}
			slugs[p.Slug] = true
		}

		r.byID[s.ID] = s
	}
	return nil
}

// Get returns the site with the given id.
func (r *Registry) Get(id string) (*Site, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// IDs lists site ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pillar returns the pillar with the given slug.
func (s *Site) Pillar(slug string) (Pillar, bool) {
	for _, p := range s.Pillars {
		if p.Slug == slug {
			return p, true
		}
	}
	return Pillar{}, false
}

// Codes lists every product code on the site once, in first-seen order.
func (s *Site) Codes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, p := range s.Pillars {
		for _, c := range p.Products {
			c = strings.TrimSpace(c)
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			codes = append(codes, c)
		}
	}
	return codes
}

// CurrencySymbols is the symbol map the normalizer should render this site's prices with.
func (s *Site) CurrencySymbols() map[string]string {
	symbols := map[string]string{"USD": "$"}
	if s.Symbol != "" {
		symbols[s.Currency] = s.Symbol
	}
	return symbols
}

// Entries joins summaries with the pillars that list them, in pillar order.
// A product listed under two pillars appears once per pillar.
func (s *Site) Entries(summaries []model.Summary) []catalog.Entry {
	byCode := make(map[string]model.Summary, len(summaries))
	for _, sum := range summaries {
		if _, ok := byCode[sum.ProductCode]; !ok {
			byCode[sum.ProductCode] = sum
		}
	}

	var entries []catalog.Entry
	for _, p := range s.Pillars {
		for _, c := range p.Products {
			if sum, ok := byCode[strings.TrimSpace(c)]; ok {
				entries = append(entries, catalog.Entry{Summary: sum, Category: p.Slug})
			}
		}
	}
	return entries
}
