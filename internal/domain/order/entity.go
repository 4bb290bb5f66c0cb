// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
)

// ErrEmptyCart is returned when confirming a cart with nothing in it
var ErrEmptyCart = errors.New("cart is empty")

// Line is one product row of an order summary
type Line struct {
	ProductID cart.ProductID  `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Thumbnail string          `json:"thumbnail,omitempty"`
}

// Summary is the priced view of a cart
type Summary struct {
	Lines []Line          `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Empty bool            `json:"empty"`
}

// Confirmation is returned when an order is confirmed
type Confirmation struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Owner       string    `json:"-"`
	Summary     Summary   `json:"summary"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Summarize prices a snapshot against the catalog. Lines follow catalog
// order; ids the catalog does not know are left out of lines and total but
// still counted.
func Summarize(c *catalog.Catalog, snapshot cart.Snapshot) Summary {
	summary := Summary{
		Lines: []Line{},
		Count: snapshot.Count(),
		Total: decimal.Zero,
		Empty: len(snapshot) == 0,
	}

	priced := make(map[cart.ProductID]bool, len(snapshot))
	for _, p := range c.Products() {
		qty := snapshot.Qty(p.ID)
		// a duplicated id is priced once, at its first position
		if qty <= 0 || priced[p.ID] {
			continue
		}
		priced[p.ID] = true

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		summary.Lines = append(summary.Lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
			Thumbnail: p.Image.Thumbnail,
		})
		summary.Total = summary.Total.Add(lineTotal)
	}

	return summary
}

// Money formats an amount as dollars with two decimals
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// generateOrderNumber formats ORD-YYYYMMDD-XXXXXXXX from the order id
func generateOrderNumber(id uuid.UUID, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), short)
}
