package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tours365/internal/listing"
	"tours365/internal/model"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var siteID string

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the partner's active products for a site's destination",
		Long: `Pages through the partner search for the site's destination and prints
one line per active product, for curating pillar code lists.`,
		Example: `  tours discover --site prg365 > prg365-candidates.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.site(siteID)
			if err != nil {
				return err
			}
			if s.Destination == "" {
				return fmt.Errorf("site %s has no destination", s.ID)
			}

			n := listing.NormalizerFor(s)
			out := cmd.OutOrStdout()
			var writeErr error
			err = a.partnerClient().SearchByDestination(cmd.Context(), s.Destination, s.Currency, func(products []model.RawProduct) {
				for _, sum := range n.Normalize(products) {
					if writeErr == nil {
						_, writeErr = fmt.Fprintf(out, "%s\t%s\t%s\t%.1f (%d)\n",
							sum.ProductCode, sum.Title, sum.FromPriceDisplay, sum.Rating, sum.ReviewCount)
					}
				}
			})
			if err != nil {
				return err
			}
			return writeErr
		},
	}

	cmd.Flags().StringVar(&siteID, "site", "", "site id")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}
