package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"pos-backoffice/internal/domain"
)

type stubVariantRepo struct {
	items []domain.Variant
	err   error
}

func (s *stubVariantRepo) Upsert(_ context.Context, v domain.Variant) (*domain.Variant, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, v)
	return &v, nil
}

type stubFetcher struct {
	pages map[string]string
	calls []string
}

func (s *stubFetcher) Do(_ context.Context, _ string, path string, _, out interface{}) error {
	s.calls = append(s.calls, path)
	body, ok := s.pages[path]
	if !ok {
		return fmt.Errorf("unexpected path %q", path)
	}
	return json.Unmarshal([]byte(body), out)
}

func newImporter(fetcher Fetcher, repo VariantWriter, pageSize int) *UpstreamImporter {
	imp := NewUpstream(fetcher, repo, log.New(io.Discard, "", 0))
	imp.pageSize = pageSize
	return imp
}

func TestUpstreamImporter_Run(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"/v1/variants?page=1&pageSize=2": `{"items":[
			{"id":"v1","title":"Phone","sku":"P1","barcode":"460001","priceCents":49900,"serialized":true},
			{"id":"v2","title":"Cable","sku":"C1","priceCents":500}
		],"page":1,"total":3}`,
		"/v1/variants?page=2&pageSize=2": `{"items":[
			{"id":"v3","title":"Mug","sku":"M1","priceCents":1299}
		],"page":2,"total":3}`,
	}}
	repo := &stubVariantRepo{}

	count, err := newImporter(fetcher, repo, 2).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 variants imported, got %d", count)
	}
	if len(fetcher.calls) != 2 {
		t.Fatalf("expected 2 page fetches, got %d: %v", len(fetcher.calls), fetcher.calls)
	}
	if repo.items[0].ID != "v1" || !repo.items[0].Serialized || repo.items[0].DefaultPriceCents != 49900 {
		t.Fatalf("unexpected first variant: %+v", repo.items[0])
	}
	if repo.items[1].Barcode != "" {
		t.Fatalf("expected empty barcode preserved, got %q", repo.items[1].Barcode)
	}
}

func TestUpstreamImporter_ShortFirstPageStops(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"/v1/variants?page=1&pageSize=10": `{"items":[
			{"id":"v1","title":"Phone","sku":"P1","priceCents":49900}
		],"page":1,"total":1}`,
	}}
	repo := &stubVariantRepo{}

	count, err := newImporter(fetcher, repo, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 || len(fetcher.calls) != 1 {
		t.Fatalf("expected single page fetch with 1 variant, got count=%d calls=%v", count, fetcher.calls)
	}
}

func TestUpstreamImporter_InvalidVariant(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"/v1/variants?page=1&pageSize=10": `{"items":[
			{"id":"v1","title":"","sku":"P1","priceCents":100}
		],"page":1,"total":1}`,
	}}

	_, err := newImporter(fetcher, &stubVariantRepo{}, 10).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for variant without title")
	}
}

func TestUpstreamImporter_RepoErrorStops(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		"/v1/variants?page=1&pageSize=10": `{"items":[
			{"id":"v1","title":"Phone","sku":"P1","priceCents":100}
		],"page":1,"total":1}`,
	}}
	repo := &stubVariantRepo{err: errors.New("boom")}

	count, err := newImporter(fetcher, repo, 10).Run(context.Background())
	if err == nil {
		t.Fatalf("expected repo error to propagate")
	}
	if count != 0 {
		t.Fatalf("expected 0 imported, got %d", count)
	}
}
