package catalog

import (
	"strings"
	"time"
)

// Product is an entry of the warehouse catalog. Batches can only be created
// for registered products.
type Product struct {
	ID          string    `json:"id"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key returns the case-insensitive registry key for a product id.
func Key(id string) string { return strings.ToLower(id) }
