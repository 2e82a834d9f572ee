package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/model"
	"github.com/ziad540/Order-Processing-System-sub000/internal/queue"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
	queue_publisher "github.com/ziad540/Order-Processing-System-sub000/internal/service"
	"github.com/ziad540/Order-Processing-System-sub000/internal/utils"
)

// CheckoutHandler turns a cart into an order. The whole purchase is
// one database transaction: order rows, stock deductions, the payment
// card record and the cart wipe all commit together or not at all. A
// partial order can never become visible, and concurrent checkouts
// contending for the same last copies are serialized by row locks so
// whichever transaction commits first gets the stock.
type CheckoutHandler struct {
	Carts      *repository.CartRepo
	Books      *repository.BookRepo
	Orders     *repository.OrderRepo
	Cards      *repository.CardRepo
	TaxPercent int
}

func NewCheckoutHandler(carts *repository.CartRepo, books *repository.BookRepo, orders *repository.OrderRepo, cards *repository.CardRepo, taxPercent int) *CheckoutHandler {
	return &CheckoutHandler{Carts: carts, Books: books, Orders: orders, Cards: cards, TaxPercent: taxPercent}
}

type purchaseReq struct {
	CardNumber string `json:"card_number"`
}

// orderTotalCents applies sales tax to a pre-tax subtotal exactly
// once, rounding half-up to the nearest cent. Totals are integer
// cents throughout; no float ever touches money.
func orderTotalCents(subtotalCents uint64, taxPercent int) uint64 {
	return (subtotalCents*uint64(100+taxPercent) + 50) / 100
}

// Purchase handles POST /v1/checkout/purchase.
//
// Sequence inside one transaction: lock the caller's cart and book
// rows, price the lines at current catalog prices, compute the taxed
// total, register the masked card, insert the order header and line
// items, deduct stock per line with the non-negative guard, clear the
// cart, commit. Any failure rolls everything back and the cart
// survives untouched for the customer to adjust. Events are published
// only after the commit succeeds, so a consumer never observes an
// order that does not durably exist.
func (h *CheckoutHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
	}

	// Card validation happens before any database work. The full pan
	// is used only for the Luhn check and the mask; it is never
	// stored or logged.
	digits, err := utils.NormalizeCardNumber(req.CardNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_card", "message": "card number failed validation"})
	}
	masked := utils.MaskCardNumber(digits)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Carts.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "begin transaction failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cartID, lines, err := h.Carts.ItemsForUpdateTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "load cart failed"})
	}
	if len(lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty_cart", "message": "cart is empty"})
	}

	var subtotal uint64
	for _, ln := range lines {
		subtotal += uint64(ln.Quantity) * uint64(ln.UnitPriceCents)
	}
	total := orderTotalCents(subtotal, h.TaxPercent)

	if err := h.Cards.UpsertTx(ctx, tx, userID, masked); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "register card failed"})
	}

	order := model.Order{CustomerID: userID, PaymentRef: masked, TotalCents: total}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "create order failed"})
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, model.OrderItem{
			OrderID:        order.ID,
			ISBN:           ln.ISBN,
			Quantity:       ln.Quantity,
			UnitPriceCents: ln.UnitPriceCents,
		})
	}
	if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "create order items failed"})
	}

	// Deduct stock line by line. The guarded UPDATE rejects any line
	// the remaining stock cannot cover, which aborts the entire
	// checkout: the customer keeps their cart and can retry after
	// adjusting quantities.
	lowStock := make([]queue.StockLowEvent, 0)
	for _, ln := range lines {
		remaining, threshold, err := h.Books.DecrementStockTx(ctx, tx, ln.ISBN, ln.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrInsufficientStock):
				return c.JSON(http.StatusConflict, echo.Map{
					"error":   "insufficient_stock",
					"message": "not enough stock for " + ln.ISBN,
					"isbn":    ln.ISBN,
				})
			case errors.Is(err, repository.ErrBookNotFound):
				// A title removed from the catalog between add and
				// checkout gets its own kind so clients can tell it
				// apart from a plain stock shortfall.
				return c.JSON(http.StatusConflict, echo.Map{
					"error":   "book_not_found",
					"message": "book no longer available: " + ln.ISBN,
					"isbn":    ln.ISBN,
				})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "stock update failed"})
		}
		if remaining <= threshold {
			lowStock = append(lowStock, queue.StockLowEvent{
				ISBN:             ln.ISBN,
				Title:            ln.Title,
				Stock:            remaining,
				ReorderThreshold: threshold,
			})
		}
	}

	if err := h.Carts.ClearTx(ctx, tx, cartID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "clear cart failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "commit failed"})
	}
	committed = true

	go publishCheckoutEvents(order, lines, lowStock)

	return c.JSON(http.StatusOK, echo.Map{
		"order_id":       order.ID,
		"total_cents":    order.TotalCents,
		"subtotal_cents": subtotal,
		"created_at":     order.CreatedAt,
	})
}

// publishCheckoutEvents emits the post-commit notifications for a
// completed order. Failures are logged and dropped; the order is
// already durable and must not be affected by broker trouble.
func publishCheckoutEvents(order model.Order, lines []repository.CheckoutLine, lowStock []queue.StockLowEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.OrderPlacedEvent{
		OrderID:    order.ID,
		UserID:     order.CustomerID,
		TotalCents: order.TotalCents,
		PlacedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, ln := range lines {
		ev.Items = append(ev.Items, queue.OrderLineEvent{
			ISBN:           ln.ISBN,
			Title:          ln.Title,
			Quantity:       ln.Quantity,
			UnitPriceCents: ln.UnitPriceCents,
		})
	}
	if err := queue_publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("checkout: order.placed publish failed for order %d: %v", order.ID, err)
	}
	for _, ls := range lowStock {
		if err := queue_publisher.PublishStockLow(ctx, ls); err != nil {
			log.Printf("checkout: stock.low publish failed for %s: %v", ls.ISBN, err)
		}
	}
}
