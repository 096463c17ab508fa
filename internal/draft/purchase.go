package draft

import "pos-backoffice/internal/domain"

// Purchase accumulates line items for one incoming purchase. Lines are unique
// by variant id (no serialized units on intake) and additionally carry a
// per-unit discount and optional batch/expiry metadata.
//
// Purchase is not safe for concurrent use; the owning service serializes access.
type Purchase struct {
	lines      []Line
	supplierID string
	currencyID string
	kassaID    string
	notes      string
}

// NewPurchase returns an empty purchase draft.
func NewPurchase() *Purchase {
	return &Purchase{}
}

// AddLine inserts a line for the variant, or increments quantity by one when
// the variant is already drafted. unitPriceCents overrides the variant's
// default price when non-nil.
func (p *Purchase) AddLine(v domain.Variant, unitPriceCents *int64) error {
	price := v.DefaultPriceCents
	if unitPriceCents != nil {
		price = *unitPriceCents
	}
	if price < 0 {
		return ErrInvalidAmount
	}

	if i := p.find(v.ID); i >= 0 {
		p.lines[i].Quantity++
		p.lines[i].recalc()
		return nil
	}

	line := Line{
		VariantID:      v.ID,
		Title:          v.Title,
		SKU:            v.SKU,
		Quantity:       1,
		UnitPriceCents: price,
	}
	line.recalc()
	p.lines = append(p.lines, line)
	return nil
}

// UpdateQuantity sets the quantity of the variant's line and recomputes its
// total. A quantity of zero or less removes the line. Unknown variants are a
// no-op.
func (p *Purchase) UpdateQuantity(variantID string, quantity int) {
	i := p.find(variantID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		p.lines = removeAt(p.lines, i)
		return
	}
	p.lines[i].Quantity = quantity
	p.lines[i].recalc()
}

// UpdatePrice overwrites the unit price and recomputes the total. The new
// price may not undercut the line's current discount.
func (p *Purchase) UpdatePrice(variantID string, unitPriceCents int64) error {
	if unitPriceCents < 0 {
		return ErrInvalidAmount
	}
	i := p.find(variantID)
	if i < 0 {
		return nil
	}
	if p.lines[i].UnitDiscountCents > unitPriceCents {
		return ErrInvalidAmount
	}
	p.lines[i].UnitPriceCents = unitPriceCents
	p.lines[i].recalc()
	return nil
}

// UpdateDiscount sets the per-unit discount and recomputes the total. The
// discount must stay within [0, unitPrice].
func (p *Purchase) UpdateDiscount(variantID string, unitDiscountCents int64) error {
	if unitDiscountCents < 0 {
		return ErrInvalidAmount
	}
	i := p.find(variantID)
	if i < 0 {
		return nil
	}
	if unitDiscountCents > p.lines[i].UnitPriceCents {
		return ErrInvalidAmount
	}
	p.lines[i].UnitDiscountCents = unitDiscountCents
	p.lines[i].recalc()
	return nil
}

// SetBatch records batch/expiry metadata on the variant's line. Unknown
// variants are a no-op.
func (p *Purchase) SetBatch(variantID, batchNumber, expiryDate string) {
	if i := p.find(variantID); i >= 0 {
		p.lines[i].BatchNumber = batchNumber
		p.lines[i].ExpiryDate = expiryDate
	}
}

// RemoveLine deletes the variant's line. Unknown variants are a no-op.
func (p *Purchase) RemoveLine(variantID string) {
	if i := p.find(variantID); i >= 0 {
		p.lines = removeAt(p.lines, i)
	}
}

func (p *Purchase) SetSupplier(id string) { p.supplierID = id }
func (p *Purchase) SetCurrency(id string) { p.currencyID = id }
func (p *Purchase) SetKassa(id string)    { p.kassaID = id }
func (p *Purchase) SetNotes(text string)  { p.notes = text }

// Reset clears all lines and scalar fields back to the empty state.
func (p *Purchase) Reset() {
	*p = Purchase{}
}

// Lines returns a copy of the draft's lines in insertion order.
func (p *Purchase) Lines() []Line {
	out := make([]Line, len(p.lines))
	copy(out, p.lines)
	return out
}

// Len reports the number of lines.
func (p *Purchase) Len() int { return len(p.lines) }

// SubtotalCents sums quantity x unit price across all lines, ignoring discounts.
func (p *Purchase) SubtotalCents() int64 {
	var total int64
	for i := range p.lines {
		total += int64(p.lines[i].Quantity) * p.lines[i].UnitPriceCents
	}
	return total
}

// TotalDiscountCents sums quantity x unit discount across all lines.
func (p *Purchase) TotalDiscountCents() int64 {
	var total int64
	for i := range p.lines {
		total += int64(p.lines[i].Quantity) * p.lines[i].UnitDiscountCents
	}
	return total
}

// GrandTotalCents sums all line totals. For every reachable state
// GrandTotalCents() == SubtotalCents() - TotalDiscountCents().
func (p *Purchase) GrandTotalCents() int64 {
	var total int64
	for i := range p.lines {
		total += p.lines[i].TotalCents
	}
	return total
}

func (p *Purchase) SupplierID() string { return p.supplierID }
func (p *Purchase) CurrencyID() string { return p.currencyID }
func (p *Purchase) KassaID() string    { return p.kassaID }
func (p *Purchase) Notes() string      { return p.notes }

func (p *Purchase) find(variantID string) int {
	return findLine(p.lines, LineKey{VariantID: variantID})
}
