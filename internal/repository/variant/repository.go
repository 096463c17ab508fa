package variant

import (
	"context"

	"pos-backoffice/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Variant, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Variant, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Variant, error)
	Upsert(ctx context.Context, v domain.Variant) (*domain.Variant, error)
}
