package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/handler"
	"github.com/ziad540/Order-Processing-System-sub000/internal/middleware"
	"github.com/ziad540/Order-Processing-System-sub000/internal/model"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

// RegisterCustomer registers customer-scoped endpoints under /v1. All
// routes require a valid, unrevoked JWT and the CUSTOMER role; the
// role is re-resolved from the users table on every request rather
// than trusted from the token. Customers manage their own cart, check
// out, and read their own order history.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, checkout *handler.CheckoutHandler, orders *handler.OrderHandler, jwtSecret string, tokens *repository.TokenRepo, users *repository.UserRepo) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret, tokens),
		middleware.RequireRole(users, model.RoleCustomer),
	)

	// ---- Cart ----
	g.GET("/cart", cart.List)
	g.POST("/cart/items", cart.AddItem)
	g.POST("/cart/items/quantity", cart.UpdateQuantity)
	g.POST("/cart/items/increment", cart.Increment)
	g.POST("/cart/items/decrement", cart.Decrement)
	g.POST("/cart/items/remove", cart.Remove)

	// ---- Checkout ----
	g.POST("/checkout/purchase", checkout.Purchase)

	// ---- Orders ----
	g.GET("/my-orders", orders.ListMine)
	g.GET("/orders/:id", orders.Get)
}
