package repository

import (
	"context"
	"database/sql"

	"tours365/internal/model"
)

// Sync status values of partner_product_raw rows.
const (
	StatusPending   = "S"
	StatusProcessed = "N"
)

const rawSchema = `
CREATE TABLE IF NOT EXISTS partner_product_raw (
	id           uuid PRIMARY KEY,
	product_code text NOT NULL UNIQUE,
	source_url   text NOT NULL DEFAULT '',
	payload      jsonb NOT NULL,
	sync_status  char(1) NOT NULL DEFAULT 'S',
	updated_at   timestamptz NOT NULL DEFAULT now()
)`

// RawRepository archives raw partner payloads.
type RawRepository struct {
	DB *sql.DB
}

func (r *RawRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, rawSchema)
	return err
}

// Save updates the row for the product code, or inserts one, and marks it pending.
func (r *RawRepository) Save(ctx context.Context, p model.ArchivedProduct) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM partner_product_raw WHERE product_code = $1)", p.ProductCode,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.DB.ExecContext(ctx, `
			UPDATE partner_product_raw
			SET source_url = $1, payload = $2, sync_status = $3, updated_at = now()
			WHERE product_code = $4
		`, p.SourceURL, string(p.Payload), StatusPending, p.ProductCode)
	} else {
		_, err = r.DB.ExecContext(ctx, `
			INSERT INTO partner_product_raw
			(id, product_code, source_url, payload, sync_status)
			VALUES ($1, $2, $3, $4, $5)
		`, p.ID, p.ProductCode, p.SourceURL, string(p.Payload), StatusPending)
	}

	return err
}

// List returns every archived payload not yet marked processed.
func (r *RawRepository) List(ctx context.Context) ([]model.ArchivedProduct, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, product_code, source_url, payload
		FROM partner_product_raw
		WHERE sync_status = $1
		ORDER BY product_code
	`, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.ArchivedProduct
	for rows.Next() {
		var p model.ArchivedProduct
		if err := rows.Scan(&p.ID, &p.ProductCode, &p.SourceURL, &p.Payload); err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

func (r *RawRepository) MarkAsProcessed(ctx context.Context, productCode string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE partner_product_raw
		SET sync_status = $1
		WHERE product_code = $2
	`, StatusProcessed, productCode)
	return err
}
