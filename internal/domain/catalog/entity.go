// internal/domain/catalog/entity.go
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/product-cart/internal/domain/cart"
)

// Product represents a catalog item available for purchase
type Product struct {
	ID       cart.ProductID  `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    Image           `json:"image"`
}

// Image holds responsive image paths for a product
type Image struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Tablet    string `json:"tablet,omitempty"`
	Desktop   string `json:"desktop"`
}

// rawProduct is the source shape; id may be a string, a number or missing
type rawProduct struct {
	ID       json.RawMessage  `json:"id"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Image    Image            `json:"image"`
}

// explicitID returns the id as a string, or "" when the source has none
func (r rawProduct) explicitID() (cart.ProductID, error) {
	raw := bytes.TrimSpace(r.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return cart.ProductID(s), nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("id must be a string or a number, got %s", raw)
	}
	// 3, 3.0 and 3e0 all name product "3"
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return cart.ProductID(n.String()), nil
	}
	return cart.ProductID(d.String()), nil
}
