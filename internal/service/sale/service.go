// Package sale manages in-progress sale drafts: it owns the cart algebra
// instances, writes a snapshot through the store after every mutation, and
// submits finished drafts to the upstream ERP.
package sale

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
	drafts   map[string]*draft.Cart
	store    storage.Store
	upstream Submitter
	logger   *log.Logger
}

func New(store storage.Store, upstream Submitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		drafts:   make(map[string]*draft.Cart),
		store:    store,
		upstream: upstream,
		logger:   logger,
	}
}

// Create opens a new empty draft and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := draft.NewCart()
	s.drafts[id] = cart
	if err := s.persist(ctx, id, cart); err != nil {
		delete(s.drafts, id)
		return "", err
	}
	return id, nil
}

// Get returns the draft's current snapshot, rehydrating from storage when the
// draft is not in memory (e.g. after a restart).
func (s *Service) Get(ctx context.Context, id string) (draft.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.locked(ctx, id)
	if err != nil {
		return draft.CartSnapshot{}, err
	}
	return cart.Snapshot(), nil
}

// List returns the ids of all persisted sale drafts.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.ListDraftIDs(ctx, storage.KindSale)
}

// AddLine appends or merges a line for the variant.
func (s *Service) AddLine(ctx context.Context, id string, v domain.Variant, unitPriceCents *int64, instanceID string) (draft.CartSnapshot, error) {
	return s.mutate(ctx, id, func(c *draft.Cart) error {
		return c.AddLine(v, unitPriceCents, instanceID)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, id string, key draft.LineKey, quantity int) (draft.CartSnapshot, error) {
	return s.mutate(ctx, id, func(c *draft.Cart) error {
		c.UpdateQuantity(key, quantity)
		return nil
	})
}

func (s *Service) UpdatePrice(ctx context.Context, id string, key draft.LineKey, unitPriceCents int64) (draft.CartSnapshot, error) {
	return s.mutate(ctx, id, func(c *draft.Cart) error {
		return c.UpdatePrice(key, unitPriceCents)
	})
}

func (s *Service) RemoveLine(ctx context.Context, id string, key draft.LineKey) (draft.CartSnapshot, error) {
	return s.mutate(ctx, id, func(c *draft.Cart) error {
		c.RemoveLine(key)
		return nil
	})
}

// FieldsInput updates the draft's scalar fields; nil members are left as is.
type FieldsInput struct {
	CustomerID *string `json:"customerId"`
	CurrencyID *string `json:"currencyId"`
	KassaID    *string `json:"kassaId"`
	Notes      *string `json:"notes"`
}

func (s *Service) SetFields(ctx context.Context, id string, in FieldsInput) (draft.CartSnapshot, error) {
	return s.mutate(ctx, id, func(c *draft.Cart) error {
		if in.CustomerID != nil {
			c.SetCustomer(*in.CustomerID)
		}
		if in.CurrencyID != nil {
			c.SetCurrency(*in.CurrencyID)
		}
		if in.KassaID != nil {
			c.SetKassa(*in.KassaID)
		}
		if in.Notes != nil {
			c.SetNotes(*in.Notes)
		}
		return nil
	})
}

// SetInstallment attaches (or clears, when nil) the installment proposal.
func (s *Service) SetInstallment(ctx context.Context, id string, in *draft.Installment) (draft.CartSnapshot, error) {
	return s.mutate(ctx, id, func(c *draft.Cart) error {
		c.SetInstallment(in)
		return nil
	})
}

// Reset clears the draft back to the empty state and drops its snapshot.
func (s *Service) Reset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.locked(ctx, id)
	if err != nil {
		return err
	}
	cart.Reset()
	if err := s.store.DeleteDraft(ctx, storage.KindSale, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

type submitLine struct {
	VariantID      string `json:"variantId"`
	InstanceID     string `json:"instanceId,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

type submitRequest struct {
	Lines       []submitLine       `json:"lines"`
	CustomerID  string             `json:"customerId,omitempty"`
	CurrencyID  string             `json:"currencyId,omitempty"`
	KassaID     string             `json:"kassaId,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	TotalCents  int64              `json:"totalCents"`
	Installment *draft.Installment `json:"installment,omitempty"`
}

// SubmitResult carries the upstream id of the created sale.
type SubmitResult struct {
	SaleID string `json:"id"`
}

// Submit posts the draft to the upstream ERP. On success the draft is reset
// and its snapshot deleted so the same draft cannot be submitted twice; on
// upstream rejection the draft is kept untouched for correction. The draft is
// locked for the duration so the submitted payload and the reset state agree.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.locked(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart.Len() == 0 {
		return nil, ErrEmptyDraft
	}

	req := submitRequest{
		CustomerID:  cart.CustomerID(),
		CurrencyID:  cart.CurrencyID(),
		KassaID:     cart.KassaID(),
		Notes:       cart.Notes(),
		TotalCents:  cart.TotalCents(),
		Installment: cart.Installment(),
	}
	for _, line := range cart.Lines() {
		req.Lines = append(req.Lines, submitLine{
			VariantID:      line.VariantID,
			InstanceID:     line.InstanceID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
		})
	}

	var res SubmitResult
	if err := s.upstream.Do(ctx, http.MethodPost, "/v1/sales", req, &res); err != nil {
		return nil, err
	}

	cart.Reset()
	if err := s.store.DeleteDraft(ctx, storage.KindSale, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Printf("sale service: drop snapshot id=%s after submit: %v", id, err)
	}
	s.logger.Printf("sale service: submitted draft=%s sale=%s", id, res.SaleID)
	return &res, nil
}

// mutate applies op to the draft and writes the snapshot through the store.
// Holding the lock across the write keeps snapshot order consistent with
// mutation order.
func (s *Service) mutate(ctx context.Context, id string, op func(*draft.Cart) error) (draft.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.locked(ctx, id)
	if err != nil {
		return draft.CartSnapshot{}, err
	}
	if err := op(cart); err != nil {
		return draft.CartSnapshot{}, err
	}
	if err := s.persist(ctx, id, cart); err != nil {
		return draft.CartSnapshot{}, err
	}
	return cart.Snapshot(), nil
}

// locked returns the in-memory draft, rehydrating it from storage on a miss.
// Callers must hold s.mu.
func (s *Service) locked(ctx context.Context, id string) (*draft.Cart, error) {
	if cart, ok := s.drafts[id]; ok {
		return cart, nil
	}
	data, err := s.store.LoadDraft(ctx, storage.KindSale, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var snap draft.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	cart := draft.RestoreCart(snap)
	s.drafts[id] = cart
	return cart, nil
}

func (s *Service) persist(ctx context.Context, id string, cart *draft.Cart) error {
	data, err := json.Marshal(cart.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", id, err)
	}
	return s.store.SaveDraft(ctx, storage.KindSale, id, data)
}
