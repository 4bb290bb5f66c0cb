// internal/domain/catalog/catalog.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/product-cart/internal/domain/cart"
)

// ErrUnknownProduct is returned when an id is not in the catalog
var ErrUnknownProduct = errors.New("product not found")

// Catalog is the read-only product list loaded at startup
type Catalog struct {
	products []Product
	index    map[cart.ProductID]int
}

// New builds a catalog from already normalized products. When two products
// share an id the first one wins lookups.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: append([]Product(nil), products...),
		index:    make(map[cart.ProductID]int, len(products)),
	}
	for i, p := range c.products {
		if _, taken := c.index[p.ID]; !taken {
			c.index[p.ID] = i
		}
	}
	return c
}

// Products returns the products in source order
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Lookup finds a product by id
func (c *Catalog) Lookup(id cart.ProductID) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Parse reads a JSON array of products. Products without an id get their
// 1-based position. Id collisions are logged, not rejected.
func Parse(r io.Reader, log logrus.FieldLogger) (*Catalog, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var raws []rawProduct
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	products := make([]Product, 0, len(raws))
	seen := make(map[cart.ProductID]int, len(raws))

	for i, raw := range raws {
		id, err := raw.explicitID()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		if id == "" {
			id = cart.ProductID(strconv.Itoa(i + 1))
		}

		if err := validate(raw); err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, id, err)
		}

		if first, dup := seen[id]; dup {
			log.WithFields(logrus.Fields{
				"id":       id,
				"position": i,
				"first":    first,
			}).Warn("duplicate product id in catalog; keeping the first")
		} else {
			seen[id] = i
		}

		products = append(products, Product{
			ID:       id,
			Name:     raw.Name,
			Category: raw.Category,
			Price:    *raw.Price,
			Image:    raw.Image,
		})
	}

	return New(products), nil
}

func validate(raw rawProduct) error {
	if strings.TrimSpace(raw.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if raw.Price == nil {
		return fmt.Errorf("price is required")
	}
	if raw.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if strings.TrimSpace(raw.Image.Desktop) == "" {
		return fmt.Errorf("image.desktop is required")
	}
	return nil
}

// Load reads the catalog from a file path or an http(s) URL
func Load(ctx context.Context, source string, client *http.Client, log logrus.FieldLogger) (*Catalog, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source, client, log)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f, log)
}

func fetch(ctx context.Context, url string, client *http.Client, log logrus.FieldLogger) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog not found (HTTP %d)", resp.StatusCode)
	}

	return Parse(resp.Body, log)
}
