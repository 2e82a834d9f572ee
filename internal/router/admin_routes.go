package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/handler"
	"github.com/ziad540/Order-Processing-System-sub000/internal/middleware"
	"github.com/ziad540/Order-Processing-System-sub000/internal/model"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// Catalog maintenance, restocking and the reporting projections live
// here. The ADMIN role is checked against the database per request,
// so revoking the role locks an admin out immediately.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, tokens *repository.TokenRepo, users *repository.UserRepo) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret, tokens),
		middleware.RequireRole(users, model.RoleAdmin),
	)

	// ---- Catalog ----
	g.POST("/books", a.CreateBook)
	g.POST("/books/:isbn/restock", a.Restock)

	// ---- Reports ----
	g.GET("/reports/sales", a.SalesReport)
	g.GET("/reports/low-stock", a.LowStockReport)
}
