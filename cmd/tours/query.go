package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"tours365/internal/catalog"
	"tours365/internal/listing"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		siteID   string
		category string
		sortKey  string
		page     int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print one listing page as a table",
		Example: `  tours query --site prg365
  tours query --site prg365 --category river-cruises --sort rating_desc --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			res := &resources{}
			defer res.Close()
			source, err := a.listingSource(ctx, res, false)
			if err != nil {
				return err
			}

			engine := catalog.NewEngine(catalog.Config{PageSize: a.cfg.PageSize})
			svc := &listing.Service{Sites: a.sites, Source: source, Engine: engine, Logger: a.logger}

			// same parsing as the HTTP query string
			q := engine.ParseQuery(url.Values{
				"category": {category},
				"sort":     {sortKey},
				"page":     {strconv.Itoa(page)},
			})
			result, err := svc.Listing(ctx, siteID, q)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), result, engine.PageSize())
		},
	}

	cmd.Flags().StringVar(&siteID, "site", "", "site id")
	cmd.Flags().StringVar(&category, "category", "", "pillar slug (default all pillars)")
	cmd.Flags().StringVar(&sortKey, "sort", string(catalog.SortPriceAsc), "price_asc, price_desc, rating_asc or rating_desc")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}
