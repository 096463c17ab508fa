package draft

// CartSnapshot is the serializable image of a sale draft, written to the
// snapshot store after every mutation and used to rehydrate on restart.
type CartSnapshot struct {
	Lines       []Line       `json:"lines"`
	CustomerID  string       `json:"customerId,omitempty"`
	CurrencyID  string       `json:"currencyId,omitempty"`
	KassaID     string       `json:"kassaId,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Installment *Installment `json:"installment,omitempty"`
}

// Snapshot captures the full cart state.
func (c *Cart) Snapshot() CartSnapshot {
	snap := CartSnapshot{
		Lines:      c.Lines(),
		CustomerID: c.customerID,
		CurrencyID: c.currencyID,
		KassaID:    c.kassaID,
		Notes:      c.notes,
	}
	snap.Installment = c.Installment()
	return snap
}

// RestoreCart rebuilds a cart from a snapshot. Line totals are recomputed so a
// hand-edited or stale snapshot cannot smuggle in an inconsistent total.
func RestoreCart(snap CartSnapshot) *Cart {
	c := NewCart()
	c.lines = make([]Line, len(snap.Lines))
	copy(c.lines, snap.Lines)
	for i := range c.lines {
		c.lines[i].recalc()
	}
	c.customerID = snap.CustomerID
	c.currencyID = snap.CurrencyID
	c.kassaID = snap.KassaID
	c.notes = snap.Notes
	c.SetInstallment(snap.Installment)
	return c
}

// PurchaseSnapshot is the serializable image of a purchase draft.
type PurchaseSnapshot struct {
	Lines      []Line `json:"lines"`
	SupplierID string `json:"supplierId,omitempty"`
	CurrencyID string `json:"currencyId,omitempty"`
	KassaID    string `json:"kassaId,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Snapshot captures the full purchase state.
func (p *Purchase) Snapshot() PurchaseSnapshot {
	return PurchaseSnapshot{
		Lines:      p.Lines(),
		SupplierID: p.supplierID,
		CurrencyID: p.currencyID,
		KassaID:    p.kassaID,
		Notes:      p.notes,
	}
}

// RestorePurchase rebuilds a purchase draft from a snapshot, recomputing line
// totals.
func RestorePurchase(snap PurchaseSnapshot) *Purchase {
	p := NewPurchase()
	p.lines = make([]Line, len(snap.Lines))
	copy(p.lines, snap.Lines)
	for i := range p.lines {
		p.lines[i].recalc()
	}
	p.supplierID = snap.SupplierID
	p.currencyID = snap.CurrencyID
	p.kassaID = snap.KassaID
	p.notes = snap.Notes
	return p
}
