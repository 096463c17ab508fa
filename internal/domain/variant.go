package domain

import "time"

// Variant is one purchasable configuration of a product, cached locally from
// the upstream catalog.
type Variant struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	SKU               string    `json:"sku"`
	Barcode           string    `json:"barcode,omitempty"`
	DefaultPriceCents int64     `json:"defaultPriceCents"`
	Serialized        bool      `json:"serialized"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
