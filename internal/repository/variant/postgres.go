package variant

import (
	"context"
	"errors"
	"io"
	"log"

	"pos-backoffice/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const variantColumns = `id, title, sku, COALESCE(barcode, ''), default_price_cents, serialized, updated_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	q := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1`
	return r.fetchOne(ctx, q, id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Variant, error) {
	q := `SELECT ` + variantColumns + ` FROM variants WHERE sku = $1`
	return r.fetchOne(ctx, q, sku)
}

func (r *postgresRepo) Search(ctx context.Context, query string, limit int) ([]domain.Variant, error) {
	q := `
SELECT ` + variantColumns + `
FROM variants
WHERE title ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%' OR barcode = $1
ORDER BY title
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, query, limit)
	if err != nil {
		r.logger.Printf("variant repo: search q=%q error=%v", query, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.Title, &v.SKU, &v.Barcode, &v.DefaultPriceCents, &v.Serialized, &v.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("variant repo: search rows q=%q error=%v", query, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, v domain.Variant) (*domain.Variant, error) {
	const q = `
INSERT INTO variants (id, title, sku, barcode, default_price_cents, serialized, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, now())
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    sku = EXCLUDED.sku,
    barcode = EXCLUDED.barcode,
    default_price_cents = EXCLUDED.default_price_cents,
    serialized = EXCLUDED.serialized,
    updated_at = now()
RETURNING ` + variantColumns

	var res domain.Variant
	err := r.pool.QueryRow(ctx, q, v.ID, v.Title, v.SKU, v.Barcode, v.DefaultPriceCents, v.Serialized).Scan(
		&res.ID, &res.Title, &res.SKU, &res.Barcode, &res.DefaultPriceCents, &res.Serialized, &res.UpdatedAt,
	)
	if err != nil {
		r.logger.Printf("variant repo: upsert id=%s sku=%s error=%v", v.ID, v.SKU, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, arg string) (*domain.Variant, error) {
	var v domain.Variant
	err := r.pool.QueryRow(ctx, q, arg).Scan(&v.ID, &v.Title, &v.SKU, &v.Barcode, &v.DefaultPriceCents, &v.Serialized, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("variant repo: fetch arg=%s error=%v", arg, err)
		return nil, err
	}
	return &v, nil
}
