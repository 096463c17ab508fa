package catalog

import (
	"context"
	"errors"
	"strings"

	"pos-backoffice/internal/domain"
	variantrepo "pos-backoffice/internal/repository/variant"
)

const defaultSearchLimit = 25

type Service struct {
	repo variantrepo.Repository
}

func New(repo variantrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get fetches one variant by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Variant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Lookup resolves a variant by SKU or barcode-style exact query, falling back
// to id. Used by add-line handlers where the terminal may scan or type.
func (s *Service) Lookup(ctx context.Context, ref string) (*domain.Variant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrNotFound
	}
	v, err := s.repo.GetByID(ctx, ref)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.repo.GetBySKU(ctx, ref)
}

// Search returns up to limit variants matching the free-text query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.Variant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query required")
	}
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	return s.repo.Search(ctx, query, limit)
}
