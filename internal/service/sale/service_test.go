package sale

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pos-backoffice/internal/domain"
	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/storage"
)

type stubUpstream struct {
	err      error
	calls    int
	lastPath string
	lastBody interface{}
	result   string
}

func (s *stubUpstream) Do(_ context.Context, _ string, path string, body, out interface{}) error {
	s.calls++
	s.lastPath = path
	s.lastBody = body
	if s.err != nil {
		return s.err
	}
	if res, ok := out.(*SubmitResult); ok {
		res.SaleID = s.result
	}
	return nil
}

func phoneVariant() domain.Variant {
	return domain.Variant{ID: "v1", Title: "Phone", SKU: "P1", DefaultPriceCents: 10000}
}

func newService() (*Service, storage.Store, *stubUpstream) {
	store := storage.NewMemory()
	upstream := &stubUpstream{result: "sale-1"}
	return New(store, upstream, nil), store, upstream
}

func TestCreatePersistsEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()

	id, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	data, err := store.LoadDraft(ctx, storage.KindSale, id)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	var snap draft.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("bad snapshot: %v", err)
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("new draft not empty: %+v", snap)
	}
}

func TestGetUnknownDraft(t *testing.T) {
	svc, _, _ := newService()
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMutationsWriteThrough(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()

	id, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddLine(ctx, id, phoneVariant(), nil, ""); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	snap, err := svc.UpdateQuantity(ctx, id, draft.LineKey{VariantID: "v1"}, 3)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if snap.Lines[0].TotalCents != 30000 {
		t.Fatalf("total %d, want 30000", snap.Lines[0].TotalCents)
	}

	data, err := store.LoadDraft(ctx, storage.KindSale, id)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	var stored draft.CartSnapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("bad snapshot: %v", err)
	}
	if len(stored.Lines) != 1 || stored.Lines[0].Quantity != 3 {
		t.Fatalf("stored snapshot stale: %+v", stored)
	}
}

func TestRehydrateFromStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	first := New(store, &stubUpstream{}, nil)
	id, err := first.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := first.AddLine(ctx, id, phoneVariant(), nil, "imei-1"); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := first.SetFields(ctx, id, FieldsInput{Notes: strPtr("hold till friday")}); err != nil {
		t.Fatalf("SetFields: %v", err)
	}

	// A fresh service over the same store stands in for a process restart.
	second := New(store, &stubUpstream{}, nil)
	snap, err := second.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after restart: %v", err)
	}
	if len(snap.Lines) != 1 || snap.Lines[0].InstanceID != "imei-1" {
		t.Fatalf("rehydrated lines wrong: %+v", snap.Lines)
	}
	if snap.Notes != "hold till friday" {
		t.Fatalf("rehydrated notes %q", snap.Notes)
	}
}

func TestAddLineValidationDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	id, _ := svc.Create(ctx)

	bad := int64(-5)
	if _, err := svc.AddLine(ctx, id, phoneVariant(), &bad, ""); !errors.Is(err, draft.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	data, _ := store.LoadDraft(ctx, storage.KindSale, id)
	var snap draft.CartSnapshot
	_ = json.Unmarshal(data, &snap)
	if len(snap.Lines) != 0 {
		t.Fatalf("rejected mutation reached the store")
	}
}

func TestSubmitEmptyDraft(t *testing.T) {
	ctx := context.Background()
	svc, _, upstream := newService()
	id, _ := svc.Create(ctx)

	if _, err := svc.Submit(ctx, id); !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
	if upstream.calls != 0 {
		t.Fatalf("empty draft reached upstream")
	}
}

func TestSubmitSuccessResetsAndDropsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, store, upstream := newService()
	id, _ := svc.Create(ctx)
	if _, err := svc.AddLine(ctx, id, phoneVariant(), nil, ""); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := svc.SetInstallment(ctx, id, &draft.Installment{TotalCents: 10000, TotalMonths: 2, DueDate: "2026-10-01"}); err != nil {
		t.Fatalf("SetInstallment: %v", err)
	}

	res, err := svc.Submit(ctx, id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.SaleID != "sale-1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if upstream.lastPath != "/v1/sales" {
		t.Fatalf("submitted to %s", upstream.lastPath)
	}
	req, ok := upstream.lastBody.(submitRequest)
	if !ok {
		t.Fatalf("unexpected body type %T", upstream.lastBody)
	}
	if len(req.Lines) != 1 || req.TotalCents != 10000 || req.Installment == nil {
		t.Fatalf("unexpected payload %+v", req)
	}

	snap, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after submit: %v", err)
	}
	if len(snap.Lines) != 0 || snap.Installment != nil {
		t.Fatalf("draft not reset after submit: %+v", snap)
	}
	if _, err := store.LoadDraft(ctx, storage.KindSale, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("snapshot kept after submit: %v", err)
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	upstream := &stubUpstream{err: errors.New("insufficient stock")}
	svc := New(store, upstream, nil)
	id, _ := svc.Create(ctx)
	if _, err := svc.AddLine(ctx, id, phoneVariant(), nil, ""); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if _, err := svc.Submit(ctx, id); err == nil || err.Error() != "insufficient stock" {
		t.Fatalf("expected upstream error, got %v", err)
	}
	snap, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(snap.Lines) != 1 {
		t.Fatalf("draft rolled back on upstream rejection: %+v", snap)
	}
	if _, err := store.LoadDraft(ctx, storage.KindSale, id); err != nil {
		t.Fatalf("snapshot dropped on failed submit: %v", err)
	}
}

func TestResetDropsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	id, _ := svc.Create(ctx)
	if _, err := svc.AddLine(ctx, id, phoneVariant(), nil, ""); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if err := svc.Reset(ctx, id); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := store.LoadDraft(ctx, storage.KindSale, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("snapshot kept after reset: %v", err)
	}
	snap, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after reset: %v", err)
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("draft not reset")
	}
}

func strPtr(v string) *string {
	return &v
}
