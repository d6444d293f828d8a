// Package listing serves listing cards and paginated listing pages for each site.
package listing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tours365/internal/catalog"
	"tours365/internal/model"
	"tours365/internal/observability"
	"tours365/internal/site"
)

var (
	ErrUnknownSite   = errors.New("unknown site")
	ErrUnknownPillar = errors.New("unknown pillar")
)

type Service struct {
	Sites  *site.Registry
	Source Source
	Engine *catalog.Engine
	Logger *zap.Logger
}

// Cards returns display summaries for the given codes, in that order.
func (svc *Service) Cards(ctx context.Context, siteID string, codes []string) ([]model.Summary, error) {
	s, ok := svc.Sites.Get(siteID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, siteID)
	}
	return svc.Source.Summaries(ctx, s, codes), nil
}

// Listing runs q over every listing on the site.
func (svc *Service) Listing(ctx context.Context, siteID string, q catalog.Query) (catalog.Result, error) {
	s, ok := svc.Sites.Get(siteID)
	if !ok {
		return catalog.Result{}, fmt.Errorf("%w: %s", ErrUnknownSite, siteID)
	}
	if q.Category != nil {
		if _, ok := s.Pillar(*q.Category); !ok {
			return catalog.Result{}, fmt.Errorf("%w: %s/%s", ErrUnknownPillar, siteID, *q.Category)
		}
	}

	summaries := svc.Source.Summaries(ctx, s, s.Codes())
	result := svc.Engine.Query(s.Entries(summaries), q)

	sortKey := svc.Engine.ParseSortKey(string(q.Sort))
	observability.ListingQueries.WithLabelValues(siteID, string(sortKey)).Inc()
	logger(svc.Logger).Debug("[Listing] query",
		zap.String("site", siteID),
		zap.String("sort", string(sortKey)),
		zap.Int("page", result.EffectivePage),
		zap.Int("total", result.TotalCount),
	)
	return result, nil
}
