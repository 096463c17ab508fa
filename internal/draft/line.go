// Package draft holds the in-memory line-item algebra for in-progress sale
// and purchase transactions. It performs no I/O; persistence and submission
// live in the services that own a draft.
package draft

import "errors"

var (
	// ErrInvalidAmount indicates a negative price/discount or a discount
	// exceeding the unit price.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidInstallment indicates an installment plan that cannot be scheduled.
	ErrInvalidInstallment = errors.New("invalid installment")
)

// LineKey addresses exactly one line. InstanceID is empty for quantity-tracked
// lines; serialized units carry their instance id and are never matched by
// variant id alone.
type LineKey struct {
	VariantID  string `json:"variantId"`
	InstanceID string `json:"instanceId,omitempty"`
}

// Line is one row of a draft. TotalCents is derived and recomputed by every
// mutation that touches quantity, price or discount.
type Line struct {
	VariantID         string `json:"variantId"`
	InstanceID        string `json:"instanceId,omitempty"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unitPriceCents"`
	UnitDiscountCents int64  `json:"unitDiscountCents,omitempty"`
	TotalCents        int64  `json:"totalCents"`
	BatchNumber       string `json:"batchNumber,omitempty"`
	ExpiryDate        string `json:"expiryDate,omitempty"`
}

// Key returns the line's matching key.
func (l Line) Key() LineKey {
	return LineKey{VariantID: l.VariantID, InstanceID: l.InstanceID}
}

func (l *Line) recalc() {
	l.TotalCents = int64(l.Quantity) * (l.UnitPriceCents - l.UnitDiscountCents)
}

func findLine(lines []Line, key LineKey) int {
	for i := range lines {
		if lines[i].VariantID == key.VariantID && lines[i].InstanceID == key.InstanceID {
			return i
		}
	}
	return -1
}

func removeAt(lines []Line, i int) []Line {
	return append(lines[:i], lines[i+1:]...)
}
