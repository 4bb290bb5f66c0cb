// internal/domain/storefront/cards.go
package storefront

import (
	"fmt"

	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
)

// ProductCard is a catalog product annotated with the caller's cart state
type ProductCard struct {
	catalog.Product
	Quantity    int    `json:"quantity"`
	InCart      bool   `json:"in_cart"`
	ButtonLabel string `json:"button_label"`
	PriceLabel  string `json:"price_label"`
}

// Cards returns one card per catalog product, in catalog order
func Cards(c *catalog.Catalog, snapshot cart.Snapshot) []ProductCard {
	products := c.Products()
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, Card(p, snapshot))
	}
	return cards
}

// Card annotates a single product
func Card(p catalog.Product, snapshot cart.Snapshot) ProductCard {
	qty := snapshot.Qty(p.ID)
	return ProductCard{
		Product:     p,
		Quantity:    qty,
		InCart:      snapshot.Has(p.ID),
		ButtonLabel: ButtonLabel(qty),
		PriceLabel:  "$" + p.Price.StringFixed(2),
	}
}

// ButtonLabel is the add button text for a product already in the cart qty times
func ButtonLabel(qty int) string {
	if qty <= 0 {
		return "Add to Cart"
	}
	return fmt.Sprintf("Add another (%d)", qty)
}

// AddedMessage is the toast text shown after an add
func AddedMessage(qty int) string {
	if qty == 1 {
		return "Item added"
	}
	return fmt.Sprintf("Added %d items", qty)
}
