// Package importer pulls the variant catalog from the upstream ERP and
// mirrors it into the local database, so search and price lookups work
// without a round trip per keystroke.
package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"pos-backoffice/internal/domain"
)

const defaultPageSize = 200

// VariantWriter is the slice of the variant repository the importer needs.
type VariantWriter interface {
	Upsert(ctx context.Context, v domain.Variant) (*domain.Variant, error)
}

// Fetcher issues authenticated requests against the upstream ERP.
type Fetcher interface {
	Do(ctx context.Context, method, path string, body, out interface{}) error
}

// UpstreamImporter walks the upstream variant listing page by page and
// upserts every variant locally.
type UpstreamImporter struct {
	fetcher  Fetcher
	repo     VariantWriter
	logger   *log.Logger
	pageSize int
}

func NewUpstream(fetcher Fetcher, repo VariantWriter, logger *log.Logger) *UpstreamImporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &UpstreamImporter{
		fetcher:  fetcher,
		repo:     repo,
		logger:   logger,
		pageSize: defaultPageSize,
	}
}

type upstreamVariant struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SKU        string `json:"sku"`
	Barcode    string `json:"barcode"`
	PriceCents int64  `json:"priceCents"`
	Serialized bool   `json:"serialized"`
}

type variantPage struct {
	Items []upstreamVariant `json:"items"`
	Page  int               `json:"page"`
	Total int               `json:"total"`
}

// Run imports all upstream variants and returns how many were upserted. A
// short page ends the walk.
func (i *UpstreamImporter) Run(ctx context.Context) (int, error) {
	var imported int
	for page := 1; ; page++ {
		var resp variantPage
		path := fmt.Sprintf("/v1/variants?page=%d&pageSize=%d", page, i.pageSize)
		if err := i.fetcher.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return imported, fmt.Errorf("fetch page %d: %w", page, err)
		}

		for _, uv := range resp.Items {
			if err := i.save(ctx, uv); err != nil {
				return imported, err
			}
			imported++
		}

		if len(resp.Items) < i.pageSize {
			break
		}
	}

	i.logger.Printf("importer: upserted %d variants", imported)
	return imported, nil
}

func (i *UpstreamImporter) save(ctx context.Context, uv upstreamVariant) error {
	if uv.ID == "" || uv.SKU == "" || uv.Title == "" {
		return fmt.Errorf("invalid upstream variant (missing required fields) id=%q sku=%q", uv.ID, uv.SKU)
	}

	v := domain.Variant{
		ID:                uv.ID,
		Title:             uv.Title,
		SKU:               uv.SKU,
		Barcode:           uv.Barcode,
		DefaultPriceCents: uv.PriceCents,
		Serialized:        uv.Serialized,
	}
	if _, err := i.repo.Upsert(ctx, v); err != nil {
		return fmt.Errorf("upsert variant %q: %w", uv.SKU, err)
	}
	return nil
}
