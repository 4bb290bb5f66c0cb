// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
	"github.com/your-org/product-cart/internal/domain/storefront"
	"github.com/your-org/product-cart/internal/interfaces/http/middleware"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	catalog *catalog.Catalog
	carts   *cart.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(c *catalog.Catalog, carts *cart.Service) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		carts:   carts,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	snapshot, err := h.carts.Get(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	cards := storefront.Cards(h.catalog, snapshot)

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filtered := cards[:0]
		for _, card := range cards {
			if strings.EqualFold(card.Category, category) {
				filtered = append(filtered, card)
			}
		}
		cards = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    cards,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, ok := h.catalog.Lookup(cart.ProductID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	snapshot, err := h.carts.Get(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    storefront.Card(p, snapshot),
	})
}
