package handler

import (
    "errors"
    "math"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

// CartHandler groups the repositories needed for cart mutations and
// listing. All methods assume JWT authentication and role validation
// already ran in middleware; the customer id always comes from the
// token, never from the request body.
type CartHandler struct {
    Carts *repository.CartRepo
    Books *repository.BookRepo
}

// NewCartHandler constructs a CartHandler and panics if a dependency is nil.
func NewCartHandler(carts *repository.CartRepo, books *repository.BookRepo) *CartHandler {
    if carts == nil || books == nil {
        panic("nil repository passed to NewCartHandler")
    }
    return &CartHandler{Carts: carts, Books: books}
}

type cartItemReq struct {
    ISBN     string `json:"isbn"`
    Quantity int64  `json:"quantity"`
}

type cartISBNReq struct {
    ISBN string `json:"isbn"`
}

// AddItem handles POST /v1/cart/items. A first add of an ISBN inserts
// a row and answers 201; adding the same ISBN again merges into the
// existing row by summing quantities and answers 200 with the merged
// total and a merged flag. The merge is success-with-information, not
// an error: clients must not surface it as a failure. Stock is
// checked only advisorily here. The add neither reserves nor deducts
// anything, and two customers may both cart the last copy; checkout
// settles that race at commit time.
func (h *CartHandler) AddItem(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    var req cartItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
    }
    req.ISBN = strings.TrimSpace(req.ISBN)
    if req.ISBN == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
    }
    if req.Quantity < 1 || req.Quantity > math.MaxUint32 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_quantity", "message": "quantity out of range"})
    }
    ctx := c.Request().Context()

    // Advisory visible-stock check at the presentation boundary. This
    // is not a reservation: enforcement happens only at checkout.
    book, err := h.Books.GetByISBN(ctx, req.ISBN)
    if err != nil {
        if errors.Is(err, repository.ErrBookNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "book_not_found", "message": "book not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "catalog lookup failed"})
    }
    if uint64(req.Quantity) > uint64(book.Stock) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error":   "exceeds_stock",
            "message": "requested quantity exceeds available stock",
            "stock":   book.Stock,
        })
    }

    qty, merged, err := h.Carts.AddItem(ctx, userID, req.ISBN, uint32(req.Quantity))
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidQuantity):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_quantity", "message": "quantity must be at least 1"})
        case errors.Is(err, repository.ErrBookNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "book_not_found", "message": "book not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "add item failed"})
    }
    if merged {
        return c.JSON(http.StatusOK, echo.Map{
            "isbn":     req.ISBN,
            "quantity": qty,
            "merged":   true,
        })
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "isbn":     req.ISBN,
        "quantity": qty,
    })
}

// UpdateQuantity handles POST /v1/cart/items/quantity. The quantity
// is absolute, not incremental; zero is equivalent to removing the
// item, so no row ever persists a zero quantity.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    var req cartItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
    }
    req.ISBN = strings.TrimSpace(req.ISBN)
    if req.ISBN == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
    }
    // The stored column is a 32-bit unsigned integer; anything above
    // its range would truncate silently in the cast below, so it is
    // rejected here instead.
    if req.Quantity < 0 || req.Quantity > math.MaxUint32 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_quantity", "message": "quantity out of range"})
    }
    if err := h.Carts.UpdateQuantity(c.Request().Context(), userID, req.ISBN, uint32(req.Quantity)); err != nil {
        if errors.Is(err, repository.ErrItemNotInCart) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "item_not_in_cart", "message": "item not in cart"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "update quantity failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"isbn": req.ISBN, "quantity": req.Quantity})
}

// Increment handles POST /v1/cart/items/increment: an atomic +1 on
// the item's quantity.
func (h *CartHandler) Increment(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    var req cartISBNReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ISBN) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
    }
    if err := h.Carts.IncrementOne(c.Request().Context(), userID, strings.TrimSpace(req.ISBN)); err != nil {
        if errors.Is(err, repository.ErrItemNotInCart) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "item_not_in_cart", "message": "item not in cart"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "increment failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{})
}

// Decrement handles POST /v1/cart/items/decrement: an atomic -1,
// floor-clamped at 1. Decrementing a quantity-1 item leaves the row
// untouched and reports the clamp; deleting the item requires the
// explicit remove endpoint.
func (h *CartHandler) Decrement(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    var req cartISBNReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ISBN) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
    }
    if err := h.Carts.DecrementOne(c.Request().Context(), userID, strings.TrimSpace(req.ISBN)); err != nil {
        switch {
        case errors.Is(err, repository.ErrItemNotInCart):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "item_not_in_cart", "message": "item not in cart"})
        case errors.Is(err, repository.ErrCannotDecrementBelowOne):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot_decrement_below_one", "message": "quantity is already 1; remove the item instead"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "decrement failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{})
}

// Remove handles POST /v1/cart/items/remove: deletes the item row.
func (h *CartHandler) Remove(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    var req cartISBNReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ISBN) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "isbn is required"})
    }
    if err := h.Carts.RemoveItem(c.Request().Context(), userID, strings.TrimSpace(req.ISBN)); err != nil {
        if errors.Is(err, repository.ErrItemNotInCart) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "item_not_in_cart", "message": "item not in cart"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "remove failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{})
}

// List handles GET /v1/cart: the customer's cart joined with current
// catalog data for display. Read-only; neither cart nor stock is
// touched.
func (h *CartHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    items, err := h.Carts.ListItems(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "load cart failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
