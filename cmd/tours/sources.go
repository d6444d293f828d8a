package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tours365/internal/cache"
	"tours365/internal/config"
	"tours365/internal/crawler"
	"tours365/internal/db"
	"tours365/internal/listing"
	"tours365/internal/repository"
	"tours365/internal/snapshot"
)

// resources owns the connections and watchers opened for a command.
type resources struct {
	closers []func()
}

func (r *resources) add(f func()) {
	r.closers = append(r.closers, f)
}

func (r *resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func (a *app) partnerClient() *crawler.Client {
	return crawler.NewClient(a.cfg.PartnerAPIURL, a.cfg.PartnerAPIKey, a.cfg.PartnerLanguage)
}

// snapshotStore loads every site's snapshot from files (watched for changes) or postgres.
func (a *app) snapshotStore(ctx context.Context, res *resources, watch bool) (listing.SnapshotStore, error) {
	if a.cfg.SnapshotSource == config.StorePostgres {
		pool, err := db.NewPool(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		res.add(pool.Close)
		return &repository.SnapshotRepository{DB: pool}, nil
	}

	holders := listing.Holders{}
	for _, s := range a.sites.Sites {
		snap, err := snapshot.LoadFile(s.Snapshot)
		if err != nil {
			// served empty until the file appears
			a.logger.Warn("[Snapshot] initial load failed", zap.String("site", s.ID), zap.Error(err))
		}
		holder := snapshot.NewHolder(snap)
		holders[s.ID] = holder

		if !watch || s.Snapshot == "" {
			continue
		}
		w, err := snapshot.NewWatcher(s.Snapshot, holder, a.logger.With(zap.String("site", s.ID)))
		if err != nil {
			return nil, fmt.Errorf("watch snapshot %s: %w", s.ID, err)
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			a.logger.Warn("[Snapshot] not watching", zap.String("site", s.ID), zap.Error(err))
			continue
		}
		res.add(w.Stop)
	}
	return holders, nil
}

// listingSource picks the snapshot or live source from config.
func (a *app) listingSource(ctx context.Context, res *resources, watch bool) (listing.Source, error) {
	store, err := a.snapshotStore(ctx, res, watch)
	if err != nil {
		return nil, err
	}
	snapshots := &listing.SnapshotSource{Store: store, Logger: a.logger}

	if a.cfg.ListingSource != config.SourceLive {
		return snapshots, nil
	}

	live := &listing.LiveSource{
		Fetcher:   a.partnerClient(),
		BatchSize: a.cfg.BatchSize,
		Fallback:  snapshots,
		Logger:    a.logger,
	}
	if a.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		res.add(func() { _ = client.Close() })
		live.Cache = &cache.ListingCache{Client: client, TTL: a.cfg.CacheTTL}
	}
	return live, nil
}
