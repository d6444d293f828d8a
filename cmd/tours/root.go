package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tours365/internal/config"
	"tours365/internal/logging"
	"tours365/internal/site"
)

// app is the state shared by every subcommand, filled in before it runs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	sites  *site.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var sitesFile string

	cmd := &cobra.Command{
		Use:   "tours",
		Short: "Listing backend for the 365 affiliate tour sites",
		Long: `tours serves curated partner tour listings for each affiliate site.

Listings come from an offline snapshot (default) or from the partner
product-catalog API, and are normalized into display-ready cards.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()

			logger, err := logging.New(a.cfg.LogLevel)
			if err != nil {
				return err
			}
			a.logger = logger

			if sitesFile == "" {
				sitesFile = a.cfg.SitesFile
			}
			reg, err := site.Load(sitesFile)
			if err != nil {
				return fmt.Errorf("load sites: %w", err)
			}
			a.sites = reg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&sitesFile, "sites", "", "sites file (default $SITES_FILE or configs/sites.yaml)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newSnapshotCmd(a))
	cmd.AddCommand(newQueryCmd(a))
	cmd.AddCommand(newDiscoverCmd(a))

	return cmd
}

func (a *app) site(id string) (*site.Site, error) {
	s, ok := a.sites.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown site %q (have %v)", id, a.sites.IDs())
	}
	return s, nil
}
