package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tours365/internal/model"
)

const snapshotBatchSize = 200

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS listing_snapshot (
	site               text NOT NULL,
	product_code       text NOT NULL,
	title              text NOT NULL,
	from_price_display text NOT NULL,
	rating             double precision NOT NULL DEFAULT 0,
	review_count       integer NOT NULL DEFAULT 0,
	image_url          text,
	free_cancellation  boolean NOT NULL DEFAULT false,
	product_url        text NOT NULL,
	operator           text NOT NULL DEFAULT '',
	updated_at         timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (site, product_code)
)`

const upsertSnapshotRow = `
INSERT INTO listing_snapshot
(site, product_code, title, from_price_display, rating, review_count, image_url, free_cancellation, product_url, operator)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (site, product_code) DO UPDATE SET
	title = EXCLUDED.title,
	from_price_display = EXCLUDED.from_price_display,
	rating = EXCLUDED.rating,
	review_count = EXCLUDED.review_count,
	image_url = EXCLUDED.image_url,
	free_cancellation = EXCLUDED.free_cancellation,
	product_url = EXCLUDED.product_url,
	operator = EXCLUDED.operator,
	updated_at = now()`

// SnapshotRepository keeps site snapshots in postgres, one row per listing.
type SnapshotRepository struct {
	DB *pgxpool.Pool
}

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, snapshotSchema)
	return err
}

// Save upserts every entry of snap for site and removes rows for codes no
// longer in it. It returns the number of rows written.
func (r *SnapshotRepository) Save(ctx context.Context, site string, snap model.Snapshot) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin snapshot save: %w", err)
	}
	defer tx.Rollback(ctx)

	codes := make([]string, 0, len(snap))
	for code := range snap {
		codes = append(codes, code)
	}

	total := 0
	for i := 0; i < len(codes); i += snapshotBatchSize {
		j := min(i+snapshotBatchSize, len(codes))

		b := &pgx.Batch{}
		for _, code := range codes[i:j] {
			e := snap[code]
			b.Queue(upsertSnapshotRow,
				site, code, e.Title, e.FromPriceDisplay, e.Rating, e.ReviewCount,
				e.ImageURL, e.FreeCancellation, e.ProductURL, e.Operator,
			)
		}

		br := tx.SendBatch(ctx, b)
		for k := i; k < j; k++ {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return total, fmt.Errorf("upsert %s/%s: %w", site, codes[k], err)
			}
			total += int(tag.RowsAffected())
		}
		if err := br.Close(); err != nil {
			return total, err
		}
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM listing_snapshot WHERE site = $1 AND NOT (product_code = ANY($2))`, site, codes,
	); err != nil {
		return total, fmt.Errorf("prune snapshot %s: %w", site, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return total, fmt.Errorf("commit snapshot save: %w", err)
	}
	return total, nil
}

// Load returns the stored snapshot for site; an unknown site yields an empty snapshot.
func (r *SnapshotRepository) Load(ctx context.Context, site string) (model.Snapshot, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_code, title, from_price_display, rating, review_count,
		       image_url, free_cancellation, product_url, operator
		FROM listing_snapshot
		WHERE site = $1
	`, site)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := model.Snapshot{}
	for rows.Next() {
		var (
			code string
			e    model.SnapshotEntry
		)
		if err := rows.Scan(&code, &e.Title, &e.FromPriceDisplay, &e.Rating, &e.ReviewCount,
			&e.ImageURL, &e.FreeCancellation, &e.ProductURL, &e.Operator); err != nil {
			return nil, err
		}
		snap[code] = e
	}
	return snap, rows.Err()
}
