// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/product-cart/internal/domain/order"
	"github.com/your-org/product-cart/internal/infrastructure/messaging/rabbitmq"
	"github.com/your-org/product-cart/internal/interfaces/http/middleware"
	"github.com/your-org/product-cart/internal/pkg/pdf"
)

// OrderHandler handles order confirmation endpoints
type OrderHandler struct {
	orders   *order.Service
	receipts *pdf.Service
	log      logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, receipts *pdf.Service, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		receipts: receipts,
		log:      log,
	}
}

// ConfirmationResponse carries the confirmed order with display strings
type ConfirmationResponse struct {
	*order.Confirmation
	Total string `json:"total"`
}

// ConfirmOrder handles POST /orders/confirm
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	ctx := rabbitmq.WithCorrelationID(c.Request.Context(), c.GetString("request_id"))

	confirmation, err := h.orders.Confirm(ctx, middleware.CartOwner(c))
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot confirm an empty cart",
			})
			return
		}
		h.fail(c, err, "Failed to confirm order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order confirmed",
		"data": ConfirmationResponse{
			Confirmation: confirmation,
			Total:        order.Money(confirmation.Summary.Total),
		},
	})
}

// GetReceipt handles GET /orders/receipt?format=json|html|pdf
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	summary, err := h.orders.Summary(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		h.fail(c, err, "Failed to retrieve cart")
		return
	}

	data := h.receipts.NewReceiptData(summary, c.Query("order_number"), time.Now())

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, gin.H{
			"message": "Receipt generated successfully",
			"data": gin.H{
				"receipt": data,
				"total":   order.Money(summary.Total),
			},
		})

	case "html":
		html, err := h.receipts.RenderHTML(data)
		if err != nil {
			h.fail(c, err, "Failed to generate receipt")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))

	case "pdf":
		buf, err := h.receipts.GenerateReceipt(data)
		if err != nil {
			h.fail(c, err, "Failed to generate receipt")
			return
		}
		filename := fmt.Sprintf("receipt-%s.pdf", time.Now().Format("20060102-150405"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "format must be json, html or pdf",
		})
	}
}

// StartNewOrder handles POST /orders/new
func (h *OrderHandler) StartNewOrder(c *gin.Context) {
	if _, err := h.orders.StartNew(c.Request.Context(), middleware.CartOwner(c)); err != nil {
		h.fail(c, err, "Failed to start new order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "New order started",
		"data":    gin.H{"count": 0},
	})
}

func (h *OrderHandler) fail(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	h.log.WithError(err).WithField("cart_owner", middleware.CartOwner(c)).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": message,
	})
}
