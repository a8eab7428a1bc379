package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/warehouse/internal/modules/inventory"
)

// Type distinguishes what a transaction records.
type Type string

const (
	TypeAcquisition Type = "ACQUISITION" // partner brought stock in
	TypeSale        Type = "SALE"        // partner sold from its batches
)

// Transaction is an immutable record of a completed acquisition or sale.
// Only the payment state of a sale changes after creation.
type Transaction struct {
	ID        uuid.UUID                  `json:"id"`
	Type      Type                       `json:"type"`
	PartnerID string                     `json:"partner_id"`
	ProductID string                     `json:"product_id"`
	Quantity  int                        `json:"quantity"`
	Amount    decimal.Decimal            `json:"amount"`
	Lines     []inventory.AllocationLine `json:"lines,omitempty"`
	Paid      bool                       `json:"paid"`
	PaidAt    *time.Time                 `json:"paid_at,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}
