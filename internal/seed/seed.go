package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type variantSeed struct {
	SKU        string
	Title      string
	Barcode    string
	PriceCents int64
	Serialized bool
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	variants := []variantSeed{
		{
			SKU:        "SKU-DEMO-TSHIRT",
			Title:      "Demo T-Shirt",
			Barcode:    "4600000000017",
			PriceCents: 1999,
		},
		{
			SKU:        "SKU-DEMO-MUG",
			Title:      "Demo Mug",
			Barcode:    "4600000000024",
			PriceCents: 1299,
		},
		{
			SKU:        "SKU-DEMO-PHONE",
			Title:      "Demo Phone",
			Barcode:    "4600000000031",
			PriceCents: 49900,
			Serialized: true,
		},
	}

	for _, v := range variants {
		if err := upsertVariant(ctx, pool, v); err != nil {
			return fmt.Errorf("upsert variant %s: %w", v.SKU, err)
		}
	}

	return nil
}

func upsertVariant(ctx context.Context, pool *pgxpool.Pool, v variantSeed) error {
	const q = `
INSERT INTO variants (title, sku, barcode, default_price_cents, serialized)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
ON CONFLICT (sku) DO UPDATE
SET title = EXCLUDED.title,
    barcode = EXCLUDED.barcode,
    default_price_cents = EXCLUDED.default_price_cents,
    serialized = EXCLUDED.serialized,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q, v.Title, v.SKU, v.Barcode, v.PriceCents, v.Serialized)
	if err != nil {
		return err
	}
	return nil
}
