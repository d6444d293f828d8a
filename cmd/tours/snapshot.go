package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tours365/internal/crawler"
	"tours365/internal/db"
	"tours365/internal/listing"
	"tours365/internal/model"
	"tours365/internal/repository"
	"tours365/internal/site"
	"tours365/internal/snapshot"
)

type snapshotOptions struct {
	siteID   string
	out      string
	enrich   bool
	archive  bool
	replay   bool
	parquet  string
	postgres bool
}

func newSnapshotCmd(a *app) *cobra.Command {
	opts := snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build a site's offline listing snapshot from the partner API",
		Long: `Fetches every product code listed on the site, normalizes the records
and writes the snapshot file the server reads. A fetch that yields no
listings leaves the existing snapshot untouched.

--from-archive replays only pending archived payloads and marks the ones it
uses as processed, so replaying the same site again needs a fresh --archive
run first.`,
		Example: `  tours snapshot --site prg365
  tours snapshot --site aru365 --enrich --archive --parquet out/aru365.parquet
  tours snapshot --site aru365 --from-archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.siteID, "site", "", "site id")
	cmd.Flags().StringVar(&opts.out, "out", "", "output file (default the site's snapshot path)")
	cmd.Flags().BoolVar(&opts.enrich, "enrich", false, "read missing operator names from product pages")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "archive raw partner payloads in postgres")
	cmd.Flags().BoolVar(&opts.replay, "from-archive", false, "rebuild from archived raw payloads instead of the partner API")
	cmd.Flags().StringVar(&opts.parquet, "parquet", "", "also export the snapshot as parquet to this path")
	cmd.Flags().BoolVar(&opts.postgres, "postgres", false, "also store the snapshot in postgres")
	cmd.MarkFlagsMutuallyExclusive("from-archive", "archive")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func runSnapshot(ctx context.Context, a *app, opts snapshotOptions) error {
	s, err := a.site(opts.siteID)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = s.Snapshot
	}
	if out == "" {
		return fmt.Errorf("site %s has no snapshot path; pass --out", s.ID)
	}

	snap, err := buildSnapshot(ctx, a, s, opts)
	if err != nil {
		return err
	}

	if err := snapshot.SaveFile(out, snap); err != nil {
		return err
	}
	a.logger.Info("[Snapshot] written", zap.String("site", s.ID), zap.String("path", out), zap.Int("entries", len(snap)))

	if opts.parquet != "" {
		if err := snapshot.ExportParquet(opts.parquet, s.ID, snap); err != nil {
			return err
		}
		a.logger.Info("[Snapshot] parquet exported", zap.String("path", opts.parquet))
	}

	if opts.postgres {
		pool, err := db.NewPool(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo := &repository.SnapshotRepository{DB: pool}
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare snapshot table: %w", err)
		}
		n, err := repo.Save(ctx, s.ID, snap)
		if err != nil {
			return err
		}
		a.logger.Info("[Snapshot] stored in postgres", zap.String("site", s.ID), zap.Int("rows", n))
	}

	return nil
}

// buildSnapshot fetches from the partner API, or replays the raw archive.
func buildSnapshot(ctx context.Context, a *app, s *site.Site, opts snapshotOptions) (model.Snapshot, error) {
	logger := a.logger.With(zap.String("site", s.ID))

	var raw *repository.RawRepository
	if opts.archive || opts.replay {
		conn, err := db.New(a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		raw = &repository.RawRepository{DB: conn}
		if err := raw.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("prepare raw archive: %w", err)
		}
	}

	if opts.replay {
		return snapshot.Replay(ctx, raw, listing.NormalizerFor(s), s.Codes(), logger)
	}

	builder := &snapshot.Builder{
		Fetcher:    a.partnerClient(),
		Normalizer: listing.NormalizerFor(s),
		Logger:     logger,
		Workers:    a.cfg.WorkerCount,
		BatchSize:  a.cfg.BatchSize,
	}
	if opts.enrich {
		builder.Pages = crawler.FetchPage
	}
	if raw != nil {
		builder.Archive = raw
	}
	return builder.Build(ctx, s.Codes())
}
