// Package purchase manages in-progress purchase drafts the same way the sale
// service manages carts, adding per-unit discounts, batch metadata and the
// subtotal/discount/grand-total aggregates.
package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"pos-backoffice/internal/domain"
	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/storage"

	"github.com/google/uuid"
)

// ErrEmptyDraft rejects submission of a draft without lines.
var ErrEmptyDraft = errors.New("draft has no lines")

// Submitter is the slice of the upstream client the service needs.
type Submitter interface {
	Do(ctx context.Context, method, path string, body, out interface{}) error
}

type Service struct {
	mu       sync.Mutex
	drafts   map[string]*draft.Purchase
	store    storage.Store
	upstream Submitter
	logger   *log.Logger
}

func New(store storage.Store, upstream Submitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		drafts:   make(map[string]*draft.Purchase),
		store:    store,
		upstream: upstream,
		logger:   logger,
	}
}

// View is a purchase snapshot plus its derived aggregates.
type View struct {
	draft.PurchaseSnapshot
	SubtotalCents      int64 `json:"subtotalCents"`
	TotalDiscountCents int64 `json:"totalDiscountCents"`
	GrandTotalCents    int64 `json:"grandTotalCents"`
}

func viewOf(p *draft.Purchase) View {
	return View{
		PurchaseSnapshot:   p.Snapshot(),
		SubtotalCents:      p.SubtotalCents(),
		TotalDiscountCents: p.TotalDiscountCents(),
		GrandTotalCents:    p.GrandTotalCents(),
	}
}

// Create opens a new empty draft and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	p := draft.NewPurchase()
	s.drafts[id] = p
	if err := s.persist(ctx, id, p); err != nil {
		delete(s.drafts, id)
		return "", err
	}
	return id, nil
}

// Get returns the draft's current view, rehydrating from storage when needed.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.locked(ctx, id)
	if err != nil {
		return View{}, err
	}
	return viewOf(p), nil
}

// List returns the ids of all persisted purchase drafts.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.ListDraftIDs(ctx, storage.KindPurchase)
}

func (s *Service) AddLine(ctx context.Context, id string, v domain.Variant, unitPriceCents *int64) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		return p.AddLine(v, unitPriceCents)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, id, variantID string, quantity int) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		p.UpdateQuantity(variantID, quantity)
		return nil
	})
}

func (s *Service) UpdatePrice(ctx context.Context, id, variantID string, unitPriceCents int64) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		return p.UpdatePrice(variantID, unitPriceCents)
	})
}

func (s *Service) UpdateDiscount(ctx context.Context, id, variantID string, unitDiscountCents int64) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		return p.UpdateDiscount(variantID, unitDiscountCents)
	})
}

func (s *Service) SetBatch(ctx context.Context, id, variantID, batchNumber, expiryDate string) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		p.SetBatch(variantID, batchNumber, expiryDate)
		return nil
	})
}

func (s *Service) RemoveLine(ctx context.Context, id, variantID string) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		p.RemoveLine(variantID)
		return nil
	})
}

// FieldsInput updates the draft's scalar fields; nil members are left as is.
type FieldsInput struct {
	SupplierID *string `json:"supplierId"`
	CurrencyID *string `json:"currencyId"`
	KassaID    *string `json:"kassaId"`
	Notes      *string `json:"notes"`
}

func (s *Service) SetFields(ctx context.Context, id string, in FieldsInput) (View, error) {
	return s.mutate(ctx, id, func(p *draft.Purchase) error {
		if in.SupplierID != nil {
			p.SetSupplier(*in.SupplierID)
		}
		if in.CurrencyID != nil {
			p.SetCurrency(*in.CurrencyID)
		}
		if in.KassaID != nil {
			p.SetKassa(*in.KassaID)
		}
		if in.Notes != nil {
			p.SetNotes(*in.Notes)
		}
		return nil
	})
}

// Reset clears the draft back to the empty state and drops its snapshot.
func (s *Service) Reset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.locked(ctx, id)
	if err != nil {
		return err
	}
	p.Reset()
	if err := s.store.DeleteDraft(ctx, storage.KindPurchase, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

type submitLine struct {
	VariantID         string `json:"variantId"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unitPriceCents"`
	UnitDiscountCents int64  `json:"unitDiscountCents"`
	TotalCents        int64  `json:"totalCents"`
	BatchNumber       string `json:"batchNumber,omitempty"`
	ExpiryDate        string `json:"expiryDate,omitempty"`
}

type submitRequest struct {
	Lines              []submitLine `json:"lines"`
	SupplierID         string       `json:"supplierId,omitempty"`
	CurrencyID         string       `json:"currencyId,omitempty"`
	KassaID            string       `json:"kassaId,omitempty"`
	Notes              string       `json:"notes,omitempty"`
	SubtotalCents      int64        `json:"subtotalCents"`
	TotalDiscountCents int64        `json:"totalDiscountCents"`
	GrandTotalCents    int64        `json:"grandTotalCents"`
}

// SubmitResult carries the upstream id of the created purchase.
type SubmitResult struct {
	PurchaseID string `json:"id"`
}

// Submit posts the draft to the upstream ERP, resetting it on success and
// keeping it untouched on rejection.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.locked(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Len() == 0 {
		return nil, ErrEmptyDraft
	}

	req := submitRequest{
		SupplierID:         p.SupplierID(),
		CurrencyID:         p.CurrencyID(),
		KassaID:            p.KassaID(),
		Notes:              p.Notes(),
		SubtotalCents:      p.SubtotalCents(),
		TotalDiscountCents: p.TotalDiscountCents(),
		GrandTotalCents:    p.GrandTotalCents(),
	}
	for _, line := range p.Lines() {
		req.Lines = append(req.Lines, submitLine{
			VariantID:         line.VariantID,
			Quantity:          line.Quantity,
			UnitPriceCents:    line.UnitPriceCents,
			UnitDiscountCents: line.UnitDiscountCents,
			TotalCents:        line.TotalCents,
			BatchNumber:       line.BatchNumber,
			ExpiryDate:        line.ExpiryDate,
		})
	}

	var res SubmitResult
	if err := s.upstream.Do(ctx, http.MethodPost, "/v1/purchases", req, &res); err != nil {
		return nil, err
	}

	p.Reset()
	if err := s.store.DeleteDraft(ctx, storage.KindPurchase, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Printf("purchase service: drop snapshot id=%s after submit: %v", id, err)
	}
	s.logger.Printf("purchase service: submitted draft=%s purchase=%s", id, res.PurchaseID)
	return &res, nil
}

func (s *Service) mutate(ctx context.Context, id string, op func(*draft.Purchase) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.locked(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := op(p); err != nil {
		return View{}, err
	}
	if err := s.persist(ctx, id, p); err != nil {
		return View{}, err
	}
	return viewOf(p), nil
}

func (s *Service) locked(ctx context.Context, id string) (*draft.Purchase, error) {
	if p, ok := s.drafts[id]; ok {
		return p, nil
	}
	data, err := s.store.LoadDraft(ctx, storage.KindPurchase, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var snap draft.PurchaseSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	p := draft.RestorePurchase(snap)
	s.drafts[id] = p
	return p, nil
}

func (s *Service) persist(ctx context.Context, id string, p *draft.Purchase) error {
	data, err := json.Marshal(p.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", id, err)
	}
	return s.store.SaveDraft(ctx, storage.KindPurchase, id, data)
}
