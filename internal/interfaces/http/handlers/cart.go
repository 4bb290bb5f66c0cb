// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
	"github.com/your-org/product-cart/internal/domain/order"
	"github.com/your-org/product-cart/internal/domain/storefront"
	"github.com/your-org/product-cart/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Catalog
	log     logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, c *catalog.Catalog, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: c,
		log:     log,
	}
}

// CartResponse is the cart as the storefront renders it
type CartResponse struct {
	Items cart.Snapshot `json:"items"`
	Count int           `json:"count"`
	Lines []order.Line  `json:"lines"`
	Total string        `json:"total"`
	Empty bool          `json:"empty"`
}

func (h *CartHandler) cartResponse(snapshot cart.Snapshot) CartResponse {
	summary := order.Summarize(h.catalog, snapshot)
	if snapshot == nil {
		snapshot = cart.Snapshot{}
	}
	return CartResponse{
		Items: snapshot,
		Count: summary.Count,
		Lines: summary.Lines,
		Total: order.Money(summary.Total),
		Empty: summary.Empty,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	snapshot, err := h.carts.Get(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		h.fail(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartResponse(snapshot),
	})
}

// GetCount handles GET /cart/count
func (h *CartHandler) GetCount(c *gin.Context) {
	count, err := h.carts.Count(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		h.fail(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    gin.H{"count": count},
	})
}

// AddItem handles POST /cart/items/:id
func (h *CartHandler) AddItem(c *gin.Context) {
	id := cart.ProductID(c.Param("id"))
	if _, ok := h.catalog.Lookup(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": catalog.ErrUnknownProduct.Error(),
		})
		return
	}

	snapshot, err := h.carts.Add(c.Request.Context(), middleware.CartOwner(c), id)
	if err != nil {
		h.fail(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": storefront.AddedMessage(snapshot.Qty(id)),
		"data":    h.cartResponse(snapshot),
	})
}

// IncrementItem handles POST /cart/items/:id/increment
func (h *CartHandler) IncrementItem(c *gin.Context) {
	h.update(c, h.carts.Inc, "Cart item updated successfully")
}

// DecrementItem handles POST /cart/items/:id/decrement
func (h *CartHandler) DecrementItem(c *gin.Context) {
	h.update(c, h.carts.Dec, "Cart item updated successfully")
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.update(c, h.carts.Remove, "Item removed from cart successfully")
}

type itemOp func(ctx context.Context, owner string, id cart.ProductID) (cart.Snapshot, error)

func (h *CartHandler) update(c *gin.Context, op itemOp, message string) {
	snapshot, err := op(c.Request.Context(), middleware.CartOwner(c), cart.ProductID(c.Param("id")))
	if err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    h.cartResponse(snapshot),
	})
}

// MergeCart handles POST /cart/merge: the guest cart of this browser session
// is folded into the authenticated user's cart.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	snapshot, err := h.carts.Merge(
		c.Request.Context(),
		cart.SessionOwner(middleware.SessionID(c)),
		cart.UserOwner(userID),
	)
	if err != nil {
		h.fail(c, err, "Failed to merge cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged successfully",
		"data":    h.cartResponse(snapshot),
	})
}

func (h *CartHandler) fail(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	h.log.WithError(err).WithField("cart_owner", middleware.CartOwner(c)).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": message,
	})
}
