package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/model"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

// CatalogHandler serves the public, read-only browsing endpoints.
// These carry no authentication and sit behind the response cache;
// the stock figure they expose is advisory only.
type CatalogHandler struct {
	Books *repository.BookRepo
}

func NewCatalogHandler(books *repository.BookRepo) *CatalogHandler {
	return &CatalogHandler{Books: books}
}

// bookView is the public projection of a catalog row. The reorder
// threshold is an internal replenishment setting and is not exposed.
type bookView struct {
	ISBN       string `json:"isbn"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price_cents"`
	Stock      uint32 `json:"stock"`
}

func toBookView(b model.Book) bookView {
	return bookView{
		ISBN:       b.ISBN,
		Title:      b.Title,
		Author:     b.Author,
		Category:   b.Category,
		PriceCents: b.PriceCents,
		Stock:      b.Stock,
	}
}

// List handles GET /v1/books with an optional ?category= filter.
func (h *CatalogHandler) List(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	books, err := h.Books.List(c.Request().Context(), category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "list books failed"})
	}
	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, toBookView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"books": views})
}

// Get handles GET /v1/books/:isbn.
func (h *CatalogHandler) Get(c echo.Context) error {
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
	}
	b, err := h.Books.GetByISBN(c.Request().Context(), isbn)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book_not_found", "message": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "get book failed"})
	}
	return c.JSON(http.StatusOK, toBookView(b))
}
