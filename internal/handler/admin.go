package handler

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/model"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

// AdminHandler serves the back-office endpoints: catalog maintenance,
// restocking and the reporting projections. Every route here runs
// behind RequireRole(ADMIN), which re-resolves the caller's role from
// the users table on each request, so a demoted admin loses access
// immediately even with a live token.
type AdminHandler struct {
	Books  *repository.BookRepo
	Orders *repository.OrderRepo
}

func NewAdminHandler(books *repository.BookRepo, orders *repository.OrderRepo) *AdminHandler {
	return &AdminHandler{Books: books, Orders: orders}
}

type createBookReq struct {
	ISBN             string `json:"isbn"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Category         string `json:"category"`
	PriceCents       int64  `json:"price_cents"`
	Stock            int64  `json:"stock"`
	ReorderThreshold int64  `json:"reorder_threshold"`
}

// CreateBook handles POST /v1/admin/books.
func (h *AdminHandler) CreateBook(c echo.Context) error {
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
	}
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.Title = strings.TrimSpace(req.Title)
	if req.ISBN == "" || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn and title are required"})
	}
	if req.PriceCents < 0 || req.Stock < 0 || req.ReorderThreshold < 0 ||
		req.PriceCents > math.MaxUint32 || req.Stock > math.MaxUint32 || req.ReorderThreshold > math.MaxUint32 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "price, stock and threshold out of range"})
	}
	b := model.Book{
		ISBN:             req.ISBN,
		Title:            req.Title,
		Author:           strings.TrimSpace(req.Author),
		Category:         strings.TrimSpace(req.Category),
		PriceCents:       uint32(req.PriceCents),
		Stock:            uint32(req.Stock),
		ReorderThreshold: uint32(req.ReorderThreshold),
	}
	if err := h.Books.Create(c.Request().Context(), b); err != nil {
		if errors.Is(err, repository.ErrBookExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": "isbn already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "create book failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"isbn": b.ISBN})
}

type restockReq struct {
	Quantity int64 `json:"quantity"`
}

// Restock handles POST /v1/admin/books/:isbn/restock: a publisher
// delivery arrived, add the units to the shelf.
func (h *AdminHandler) Restock(c echo.Context) error {
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
	}
	var req restockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
	}
	// The stock column is a 32-bit unsigned integer; a larger delivery
	// figure would truncate in the cast, so it is rejected up front.
	if req.Quantity < 1 || req.Quantity > math.MaxUint32 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_quantity", "message": "quantity out of range"})
	}
	stock, err := h.Books.AddStock(c.Request().Context(), isbn, uint32(req.Quantity))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book_not_found", "message": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "restock failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isbn": isbn, "stock": stock})
}

// SalesReport handles GET /v1/admin/reports/sales.
func (h *AdminHandler) SalesReport(c echo.Context) error {
	rep, err := h.Orders.Sales(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "sales report failed"})
	}
	return c.JSON(http.StatusOK, rep)
}

// LowStockReport handles GET /v1/admin/reports/low-stock: titles at or
// below their reorder threshold.
func (h *AdminHandler) LowStockReport(c echo.Context) error {
	books, err := h.Books.ListBelowThreshold(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "low stock report failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"books": books})
}
