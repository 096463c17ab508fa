package draft

import "pos-backoffice/internal/domain"

// Installment is a proposed payment plan attached to a sale draft. Amounts are
// cents; DueDate is an opaque date string interpreted upstream.
type Installment struct {
	TotalCents          int64  `json:"totalCents"`
	InitialPaymentCents int64  `json:"initialPaymentCents"`
	TotalMonths         int    `json:"totalMonths"`
	DueDate             string `json:"dueDate"`
	Notes               string `json:"notes,omitempty"`
}

// Cart accumulates line items for one in-progress sale. Lines are unique by
// (variantId, instanceId); a quantity-tracked line merges repeated adds while
// serialized units always occupy their own line pinned at quantity 1.
//
// Cart is not safe for concurrent use; the owning service serializes access.
type Cart struct {
	lines       []Line
	customerID  string
	currencyID  string
	kassaID     string
	notes       string
	installment *Installment
}

// NewCart returns an empty sale draft.
func NewCart() *Cart {
	return &Cart{}
}

// AddLine inserts a line for the variant, or increments quantity by one when a
// quantity-tracked line for the same variant already exists. unitPriceCents
// overrides the variant's default price when non-nil. Supplying instanceID
// creates a dedicated serialized line with quantity fixed at 1; re-adding an
// instance already in the draft is a no-op.
func (c *Cart) AddLine(v domain.Variant, unitPriceCents *int64, instanceID string) error {
	price := v.DefaultPriceCents
	if unitPriceCents != nil {
		price = *unitPriceCents
	}
	if price < 0 {
		return ErrInvalidAmount
	}

	key := LineKey{VariantID: v.ID, InstanceID: instanceID}
	if i := findLine(c.lines, key); i >= 0 {
		if instanceID != "" {
			return nil
		}
		c.lines[i].Quantity++
		c.lines[i].recalc()
		return nil
	}

	line := Line{
		VariantID:      v.ID,
		InstanceID:     instanceID,
		Title:          v.Title,
		SKU:            v.SKU,
		Quantity:       1,
		UnitPriceCents: price,
	}
	line.recalc()
	c.lines = append(c.lines, line)
	return nil
}

// UpdateQuantity sets the quantity of the matching line and recomputes its
// total. A quantity of zero or less removes the line. Serialized lines stay
// pinned at quantity 1 and only respond to removal. Unknown keys are a no-op.
func (c *Cart) UpdateQuantity(key LineKey, quantity int) {
	i := findLine(c.lines, key)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.lines = removeAt(c.lines, i)
		return
	}
	if c.lines[i].InstanceID != "" {
		return
	}
	c.lines[i].Quantity = quantity
	c.lines[i].recalc()
}

// UpdatePrice overwrites the unit price of the line addressed by the exact key
// and recomputes its total. Unknown keys are a no-op.
func (c *Cart) UpdatePrice(key LineKey, unitPriceCents int64) error {
	if unitPriceCents < 0 {
		return ErrInvalidAmount
	}
	if i := findLine(c.lines, key); i >= 0 {
		c.lines[i].UnitPriceCents = unitPriceCents
		c.lines[i].recalc()
	}
	return nil
}

// RemoveLine deletes the matching line. Unknown keys are a no-op.
func (c *Cart) RemoveLine(key LineKey) {
	if i := findLine(c.lines, key); i >= 0 {
		c.lines = removeAt(c.lines, i)
	}
}

func (c *Cart) SetCustomer(id string) { c.customerID = id }
func (c *Cart) SetCurrency(id string) { c.currencyID = id }
func (c *Cart) SetKassa(id string)    { c.kassaID = id }
func (c *Cart) SetNotes(text string)  { c.notes = text }

// SetInstallment attaches an installment proposal to the draft, or clears it
// when nil.
func (c *Cart) SetInstallment(in *Installment) {
	if in == nil {
		c.installment = nil
		return
	}
	cp := *in
	c.installment = &cp
}

// Installment returns a copy of the attached proposal, or nil.
func (c *Cart) Installment() *Installment {
	if c.installment == nil {
		return nil
	}
	cp := *c.installment
	return &cp
}

// Reset clears all lines and scalar fields back to the empty state.
func (c *Cart) Reset() {
	*c = Cart{}
}

// Lines returns a copy of the draft's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// TotalCents sums all line totals.
func (c *Cart) TotalCents() int64 {
	var total int64
	for i := range c.lines {
		total += c.lines[i].TotalCents
	}
	return total
}

func (c *Cart) CustomerID() string { return c.customerID }
func (c *Cart) CurrencyID() string { return c.currencyID }
func (c *Cart) KassaID() string    { return c.kassaID }
func (c *Cart) Notes() string      { return c.notes }
