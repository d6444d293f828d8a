// Package catalog filters, sorts and paginates normalized listings for a listing page.
package catalog

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tours365/internal/model"
)

// SortKey names one of the listing orderings.
type SortKey string

const (
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingAsc  SortKey = "rating_asc"
	SortRatingDesc SortKey = "rating_desc"
)

// AllSortKeys lists every ordering the engine understands.
var AllSortKeys = []SortKey{SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc}

// DefaultPageSize matches the three-column card grid.
const DefaultPageSize = 21

var pricePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Entry pairs a summary with the pillar it was listed under.
type Entry struct {
	Summary  model.Summary `json:"summary"`
	Category string        `json:"category"`
}

// Query is one listing page request. A nil Category means every pillar.
type Query struct {
	Category *string
	Sort     SortKey
	Page     int
}

// Result is one page of a filtered and sorted listing.
type Result struct {
	Page          []Entry `json:"page"`
	TotalCount    int     `json:"totalCount"`
	TotalPages    int     `json:"totalPages"`
	EffectivePage int     `json:"effectivePage"`
}

// Config controls paging and which sort keys requests may select.
type Config struct {
	PageSize    int
	DefaultSort SortKey
	SortKeys    []SortKey
}

func DefaultConfig() Config {
	return Config{
		PageSize:    DefaultPageSize,
		DefaultSort: SortPriceAsc,
		SortKeys:    AllSortKeys,
	}
}

// Engine runs listing queries. It is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine; zero config fields take their defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if len(cfg.SortKeys) == 0 {
		cfg.SortKeys = def.SortKeys
	}
	if !contains(cfg.SortKeys, cfg.DefaultSort) {
		cfg.DefaultSort = cfg.SortKeys[0]
	}
	return &Engine{cfg: cfg}
}

// PageSize is the number of entries per page.
func (e *Engine) PageSize() int {
	return e.cfg.PageSize
}

// ParseSortKey maps a request value to a configured key, falling back to the default.
func (e *Engine) ParseSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if contains(e.cfg.SortKeys, key) {
		return key
	}
	return e.cfg.DefaultSort
}

// ParseQuery reads category, sort and page from request parameters.
// An empty category selects every pillar; a non-numeric page becomes 1.
func (e *Engine) ParseQuery(values url.Values) Query {
	q := Query{
		Sort: e.ParseSortKey(values.Get("sort")),
		Page: 1,
	}
	if c := strings.TrimSpace(values.Get("category")); c != "" {
		q.Category = &c
	}
	if p, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil {
		q.Page = p
	}
	return q
}

type ranked struct {
	entry    Entry
	price    float64
	hasPrice bool
}

// Query filters all by category, sorts it stably and returns the requested page.
// The input slice is never modified; out-of-range pages are clamped.
func (e *Engine) Query(all []Entry, q Query) Result {
	rows := make([]ranked, 0, len(all))
	for _, entry := range all {
		if q.Category != nil && entry.Category != *q.Category {
			continue
		}
		price, ok := ParsePrice(entry.Summary.FromPriceDisplay)
		rows = append(rows, ranked{entry: entry, price: price, hasPrice: ok})
	}

	sortRows(rows, e.ParseSortKey(string(q.Sort)))

	total := len(rows)
	size := e.cfg.PageSize
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := min((page-1)*size, total)
	end := min(page*size, total)
	out := make([]Entry, 0, end-start)
	for _, r := range rows[start:end] {
		out = append(out, r.entry)
	}

	return Result{
		Page:          out,
		TotalCount:    total,
		TotalPages:    pages,
		EffectivePage: page,
	}
}

func sortRows(rows []ranked, key SortKey) {
	switch key {
	case SortPriceAsc, SortPriceDesc:
		desc := key == SortPriceDesc
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if a.hasPrice != b.hasPrice {
				// unknown prices go last in both directions
				return a.hasPrice
			}
			if !a.hasPrice {
				return false
			}
			if desc {
				return a.price > b.price
			}
			return a.price < b.price
		})
	case SortRatingAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].entry.Summary.Rating < rows[j].entry.Summary.Rating
		})
	case SortRatingDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].entry.Summary.Rating > rows[j].entry.Summary.Rating
		})
	}
}

// ParsePrice extracts the first number from a display string such as
// "Price from $1,250". Thousands separators are ignored.
func ParsePrice(display string) (float64, bool) {
	m := pricePattern.FindString(strings.ReplaceAll(display, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func contains(keys []SortKey, key SortKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
