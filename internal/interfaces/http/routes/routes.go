// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
	"github.com/your-org/product-cart/internal/domain/order"
	"github.com/your-org/product-cart/internal/interfaces/http/handlers"
	"github.com/your-org/product-cart/internal/interfaces/http/middleware"
	"github.com/your-org/product-cart/internal/pkg/auth"
	"github.com/your-org/product-cart/internal/pkg/pdf"
)

// Dependencies are the services the API routes are built on
type Dependencies struct {
	Catalog  *catalog.Catalog
	Carts    *cart.Service
	Orders   *order.Service
	Receipts *pdf.Service
	Log      logrus.FieldLogger
}

// SetupRoutes registers every /api/v1 route on rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies, cfg *config.Config) {
	rg.Use(
		middleware.OptionalAuthMiddleware(auth.NewJWTManager(cfg)),
		middleware.Session(cfg),
	)

	SetupProductRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupOrderRoutes(rg, deps)
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Catalog, deps.Carts)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Catalog, deps.Log)

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.GET("/count", cartHandler.GetCount)
		cartGroup.POST("/items/:id", cartHandler.AddItem)
		cartGroup.POST("/items/:id/increment", cartHandler.IncrementItem)
		cartGroup.POST("/items/:id/decrement", cartHandler.DecrementItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)

		// Merging needs a signed-in user to merge into
		cartGroup.POST("/merge", middleware.RequireUser(), cartHandler.MergeCart)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Receipts, deps.Log)

	orders := rg.Group("/orders")
	{
		orders.POST("/confirm", orderHandler.ConfirmOrder)
		orders.GET("/receipt", orderHandler.GetReceipt)
		orders.POST("/new", orderHandler.StartNewOrder)
	}
}
