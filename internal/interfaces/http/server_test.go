package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
	"github.com/your-org/product-cart/internal/domain/order"
	"github.com/your-org/product-cart/internal/infrastructure/storage/memory"
	"github.com/your-org/product-cart/internal/interfaces/http/middleware"
	"github.com/your-org/product-cart/internal/interfaces/http/routes"
	"github.com/your-org/product-cart/internal/pkg/auth"
	"github.com/your-org/product-cart/internal/pkg/pdf"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingPublisher struct {
	confirmations []*order.Confirmation
}

func (r *recordingPublisher) PublishCartCheckedOut(_ context.Context, c *order.Confirmation) error {
	r.confirmations = append(r.confirmations, c)
	return nil
}

type pingFailBackend struct {
	*memory.Store
}

func (pingFailBackend) Ping(context.Context) error { return errors.New("connection refused") }

type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type cartData struct {
	Items cart.Snapshot `json:"items"`
	Count int           `json:"count"`
	Total string        `json:"total"`
	Empty bool          `json:"empty"`
	Lines []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"lines"`
}

type harness struct {
	t         *testing.T
	server    *Server
	cfg       *config.Config
	publisher *recordingPublisher
	cookie    *http.Cookie
	token     string
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "product-cart", Environment: "test"},
		Server:  config.ServerConfig{RequestTimeout: 5 * time.Second},
		Storage: config.StorageConfig{Backend: config.BackendMemory, CartKeyPrefix: "cart"},
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour},
		Receipt: config.ReceiptConfig{StoreName: "Dessert Shop", PDFDpi: 150},
	}
}

func newHarness(t *testing.T, backend cart.Backend) *harness {
	t.Helper()

	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))

	cfg := testConfig()
	products := catalog.New([]catalog.Product{
		{ID: "1", Name: "Waffle with Berries", Category: "Waffle", Price: decimal.RequireFromString("6.50"), Image: catalog.Image{Desktop: "w.jpg"}},
		{ID: "2", Name: "Vanilla Bean Crème Brûlée", Category: "Crème Brûlée", Price: decimal.RequireFromString("7.00"), Image: catalog.Image{Desktop: "c.jpg"}},
		{ID: "3", Name: "Macaron Mix of Five", Category: "Macaron", Price: decimal.RequireFromString("8.00"), Image: catalog.Image{Desktop: "m.jpg"}},
	})
	carts := cart.NewService(backend, cfg.Storage.CartKeyPrefix, log)
	publisher := &recordingPublisher{}

	deps := routes.Dependencies{
		Catalog:  products,
		Carts:    carts,
		Orders:   order.NewService(carts, products, publisher, log),
		Receipts: pdf.NewService(cfg),
		Log:      log,
	}

	return &harness{
		t:         t,
		server:    NewServer(cfg, backend, nil, deps),
		cfg:       cfg,
		publisher: publisher,
	}
}

func (h *harness) do(method, path string) (*httptest.ResponseRecorder, envelope) {
	h.t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			h.cookie = c
		}
	}

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (h *harness) cart(env envelope) cartData {
	h.t.Helper()
	var data cartData
	require.NoError(h.t, json.Unmarshal(env.Data, &data))
	return data
}

func TestCartFlow(t *testing.T) {
	h := newHarness(t, memory.NewStore())

	w, env := h.do(http.MethodPost, "/api/v1/cart/items/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item added", env.Message)
	require.NotNil(t, h.cookie, "session cookie issued")

	_, env = h.do(http.MethodPost, "/api/v1/cart/items/1")
	assert.Equal(t, "Added 2 items", env.Message)

	_, env = h.do(http.MethodPost, "/api/v1/cart/items/2/increment")
	assert.Equal(t, cart.Snapshot{"1": 2}, h.cart(env).Items, "increment of an absent id is a no-op")

	_, env = h.do(http.MethodPost, "/api/v1/cart/items/1/decrement")
	data := h.cart(env)
	assert.Equal(t, cart.Snapshot{"1": 1}, data.Items)
	assert.Equal(t, 1, data.Count)
	assert.Equal(t, "$6.50", data.Total)

	_, env = h.do(http.MethodGet, "/api/v1/cart/count")
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	_, env = h.do(http.MethodDelete, "/api/v1/cart/items/1")
	data = h.cart(env)
	assert.True(t, data.Empty)
	assert.Equal(t, "$0.00", data.Total)
}

func TestAddUnknownProduct(t *testing.T) {
	h := newHarness(t, memory.NewStore())

	w, env := h.do(http.MethodPost, "/api/v1/cart/items/99")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", env.Error)
}

func TestProductsReflectCart(t *testing.T) {
	h := newHarness(t, memory.NewStore())
	h.do(http.MethodPost, "/api/v1/cart/items/3")
	h.do(http.MethodPost, "/api/v1/cart/items/3")

	w, env := h.do(http.MethodGet, "/api/v1/products")
	require.Equal(t, http.StatusOK, w.Code)

	var cards []struct {
		ID          string `json:"id"`
		Quantity    int    `json:"quantity"`
		InCart      bool   `json:"in_cart"`
		ButtonLabel string `json:"button_label"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	require.Len(t, cards, 3)
	assert.Equal(t, "Add to Cart", cards[0].ButtonLabel)
	assert.Equal(t, "3", cards[2].ID)
	assert.True(t, cards[2].InCart)
	assert.Equal(t, "Add another (2)", cards[2].ButtonLabel)

	_, env = h.do(http.MethodGet, "/api/v1/products?category=macaron")
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	assert.Len(t, cards, 1)

	w, _ = h.do(http.MethodGet, "/api/v1/products/2")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodGet, "/api/v1/products/404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	backend := memory.NewStore()
	alice := newHarness(t, backend)
	bob := &harness{t: t, server: alice.server}

	alice.do(http.MethodPost, "/api/v1/cart/items/1")
	_, env := bob.do(http.MethodGet, "/api/v1/cart")
	assert.True(t, bob.cart(env).Empty)
}

func TestOrderFlow(t *testing.T) {
	h := newHarness(t, memory.NewStore())

	w, env := h.do(http.MethodPost, "/api/v1/orders/confirm")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot confirm an empty cart", env.Error)

	h.do(http.MethodPost, "/api/v1/cart/items/1")
	h.do(http.MethodPost, "/api/v1/cart/items/2")

	w, env = h.do(http.MethodPost, "/api/v1/orders/confirm")
	require.Equal(t, http.StatusOK, w.Code)
	var conf struct {
		OrderID     string `json:"order_id"`
		OrderNumber string `json:"order_number"`
		Total       string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &conf))
	assert.NotEmpty(t, conf.OrderID)
	assert.Equal(t, "$13.50", conf.Total)
	require.Len(t, h.publisher.confirmations, 1)
	assert.Equal(t, conf.OrderID, h.publisher.confirmations[0].OrderID)

	w, _ = h.do(http.MethodGet, "/api/v1/orders/receipt?format=html&order_number="+conf.OrderNumber)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order Confirmed")
	assert.Contains(t, w.Body.String(), "$13.50")

	w, _ = h.do(http.MethodGet, "/api/v1/orders/receipt?format=docx")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.do(http.MethodPost, "/api/v1/orders/new")
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = h.do(http.MethodGet, "/api/v1/cart")
	assert.True(t, h.cart(env).Empty)
}

func TestMergeCart(t *testing.T) {
	h := newHarness(t, memory.NewStore())

	w, _ := h.do(http.MethodPost, "/api/v1/cart/merge")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.do(http.MethodPost, "/api/v1/cart/items/1")
	h.do(http.MethodPost, "/api/v1/cart/items/3")

	token, err := auth.NewJWTManager(h.cfg).GenerateAccessToken("42", "")
	require.NoError(t, err)
	h.token = token

	w, env := h.do(http.MethodPost, "/api/v1/cart/merge")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cart.Snapshot{"1": 1, "3": 1}, h.cart(env).Items)

	// signed in, the user's cart is the one served
	_, env = h.do(http.MethodGet, "/api/v1/cart")
	assert.Equal(t, 2, h.cart(env).Count)

	// the guest cart was emptied
	h.token = ""
	_, env = h.do(http.MethodGet, "/api/v1/cart")
	assert.True(t, h.cart(env).Empty)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, memory.NewStore())
	w, _ := h.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	down := newHarness(t, pingFailBackend{memory.NewStore()})
	w, _ = down.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
