package repository

import (
    "context"
    "database/sql"
)

// CartRepo owns the mapping from customer to cart contents. Every
// method is scoped to a customer id that the handler layer resolved
// from the authenticated token, never from a client-supplied field.
// Quantity invariants are enforced in SQL so they hold under
// concurrent requests and across server instances: a cart item row
// always carries quantity >= 1, and the same ISBN never appears twice
// in one cart (unique key on cart_id+isbn).
type CartRepo struct {
    db *sql.DB
}

// NewCartRepo returns a new CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span carts, orders and stock.
func (r *CartRepo) DB() *sql.DB { return r.db }

// Create inserts a cart for the customer and returns its id. It is
// the direct create path: when the customer already owns a cart it
// fails with ErrCartExists. Idempotent callers use GetOrCreate.
func (r *CartRepo) Create(ctx context.Context, customerID uint64) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO carts (customer_id) VALUES (?)", customerID)
    if err != nil {
        if isDuplicateKey(err) {
            return 0, ErrCartExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetOrCreate returns the customer's cart id, creating the cart on
// first use. Carts are created lazily on the first mutation and never
// deleted, so the id is stable across sessions. A concurrent create
// losing the duplicate-key race simply re-reads the winner's row.
func (r *CartRepo) GetOrCreate(ctx context.Context, customerID uint64) (uint64, error) {
    var id uint64
    err := r.db.QueryRowContext(ctx,
        "SELECT id FROM carts WHERE customer_id=? LIMIT 1", customerID).Scan(&id)
    if err == nil {
        return id, nil
    }
    if err != sql.ErrNoRows {
        return 0, err
    }
    id, err = r.Create(ctx, customerID)
    if err == ErrCartExists {
        err = r.db.QueryRowContext(ctx,
            "SELECT id FROM carts WHERE customer_id=? LIMIT 1", customerID).Scan(&id)
    }
    return id, err
}

// AddItem puts qty units of a book into the customer's cart. When no
// row exists for the ISBN one is inserted; when one does, the
// quantities are summed into the existing row in a single upsert
// statement, so concurrent adds of the same book cannot produce
// duplicate rows or lose an update. The returned merged flag tells
// the caller which of the two happened; a merge is
// success-with-information, not a failure. The new total quantity is
// returned either way. ErrInvalidQuantity rejects qty < 1 and
// ErrBookNotFound an ISBN the catalog does not carry.
func (r *CartRepo) AddItem(ctx context.Context, customerID uint64, isbn string, qty uint32) (quantity uint32, merged bool, err error) {
    if qty < 1 {
        return 0, false, ErrInvalidQuantity
    }
    cartID, err := r.GetOrCreate(ctx, customerID)
    if err != nil {
        return 0, false, err
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO cart_items (cart_id, isbn, quantity) VALUES (?,?,?) ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)",
        cartID, isbn, qty)
    if err != nil {
        if isFKViolation(err) {
            return 0, false, ErrBookNotFound
        }
        return 0, false, err
    }
    // MySQL reports 1 affected row for a fresh insert and 2 for a
    // duplicate-key update.
    n, err := res.RowsAffected()
    if err != nil {
        return 0, false, err
    }
    merged = n == 2
    err = r.db.QueryRowContext(ctx,
        "SELECT quantity FROM cart_items WHERE cart_id=? AND isbn=?",
        cartID, isbn).Scan(&quantity)
    return quantity, merged, err
}

// UpdateQuantity sets an item's quantity to an absolute value. A
// quantity of zero is equivalent to RemoveItem, so a zero never
// persists on a row. ErrItemNotInCart is returned when the customer
// has no cart or the ISBN is not in it.
func (r *CartRepo) UpdateQuantity(ctx context.Context, customerID uint64, isbn string, qty uint32) error {
    if qty == 0 {
        return r.RemoveItem(ctx, customerID, isbn)
    }
    cartID, err := r.cartID(ctx, customerID)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        "UPDATE cart_items SET quantity=? WHERE cart_id=? AND isbn=?",
        qty, cartID, isbn)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // MySQL also reports zero affected rows when the stored value
        // already equals qty, so only a missing row is an error.
        var one int
        err = r.db.QueryRowContext(ctx,
            "SELECT 1 FROM cart_items WHERE cart_id=? AND isbn=? LIMIT 1",
            cartID, isbn).Scan(&one)
        if err == sql.ErrNoRows {
            return ErrItemNotInCart
        }
        return err
    }
    return nil
}

// IncrementOne raises an item's quantity by exactly one in a single
// atomic UPDATE. ErrItemNotInCart is returned when the row is absent.
func (r *CartRepo) IncrementOne(ctx context.Context, customerID uint64, isbn string) error {
    cartID, err := r.cartID(ctx, customerID)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        "UPDATE cart_items SET quantity = quantity + 1 WHERE cart_id=? AND isbn=?",
        cartID, isbn)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrItemNotInCart
    }
    return nil
}

// DecrementOne lowers an item's quantity by exactly one, floor-clamped
// at 1: the guard `quantity > 1` makes a decrement on a quantity-1 row
// match nothing, so this path can never delete a row or persist a
// zero. That case is reported as ErrCannotDecrementBelowOne; deleting
// the item requires an explicit RemoveItem. ErrItemNotInCart is
// returned when the row is absent.
func (r *CartRepo) DecrementOne(ctx context.Context, customerID uint64, isbn string) error {
    cartID, err := r.cartID(ctx, customerID)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        "UPDATE cart_items SET quantity = quantity - 1 WHERE cart_id=? AND isbn=? AND quantity > 1",
        cartID, isbn)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n > 0 {
        return nil
    }
    var qty uint32
    err = r.db.QueryRowContext(ctx,
        "SELECT quantity FROM cart_items WHERE cart_id=? AND isbn=? LIMIT 1",
        cartID, isbn).Scan(&qty)
    if err == sql.ErrNoRows {
        return ErrItemNotInCart
    }
    if err != nil {
        return err
    }
    return ErrCannotDecrementBelowOne
}

// RemoveItem deletes an item row. ErrItemNotInCart is returned when
// there is nothing to delete.
func (r *CartRepo) RemoveItem(ctx context.Context, customerID uint64, isbn string) error {
    cartID, err := r.cartID(ctx, customerID)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        "DELETE FROM cart_items WHERE cart_id=? AND isbn=?",
        cartID, isbn)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrItemNotInCart
    }
    return nil
}

// CartItemDetail is the display projection of a cart item, joined
// with the current catalog row for title, price and the advisory
// stock figure. Listing never mutates cart or stock.
type CartItemDetail struct {
    ISBN       string `json:"isbn"`
    Title      string `json:"title"`
    Author     string `json:"author"`
    Category   string `json:"category"`
    Quantity   uint32 `json:"quantity"`
    PriceCents uint32 `json:"price_cents"`
    Stock      uint32 `json:"stock"`
}

// ListItems returns the customer's cart contents for display. A
// customer without a cart simply gets an empty list.
func (r *CartRepo) ListItems(ctx context.Context, customerID uint64) ([]CartItemDetail, error) {
    const q = `SELECT ci.isbn, b.title, b.author, b.category, ci.quantity, b.price_cents, b.stock
               FROM cart_items ci
               JOIN carts c ON c.id = ci.cart_id
               JOIN books b ON b.isbn = ci.isbn
               WHERE c.customer_id = ?
               ORDER BY ci.created_at, ci.id`
    rows, err := r.db.QueryContext(ctx, q, customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]CartItemDetail, 0)
    for rows.Next() {
        var it CartItemDetail
        if err := rows.Scan(&it.ISBN, &it.Title, &it.Author, &it.Category, &it.Quantity, &it.PriceCents, &it.Stock); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    return items, rows.Err()
}

// Clear deletes every item in the customer's cart. It is used on
// signout; checkout uses ClearTx inside its transaction instead. A
// customer without a cart is a no-op.
func (r *CartRepo) Clear(ctx context.Context, customerID uint64) error {
    _, err := r.db.ExecContext(ctx,
        "DELETE ci FROM cart_items ci JOIN carts c ON c.id = ci.cart_id WHERE c.customer_id = ?",
        customerID)
    return err
}

// ClearTx deletes every item of a cart within the caller's
// transaction, so checkout's cart-clear commits or rolls back
// together with the order and the stock decrements.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, cartID uint64) error {
    _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", cartID)
    return err
}

// CheckoutLine is a cart row as seen by checkout: quantity plus the
// CURRENT catalog price, which is the price captured onto the order
// line item (not a price frozen at add-to-cart time).
type CheckoutLine struct {
    ISBN           string
    Title          string
    Quantity       uint32
    UnitPriceCents uint32
}

// ItemsForUpdateTx loads the customer's cart lines joined with
// current catalog prices and locks both the cart item rows and the
// book rows (`FOR UPDATE`) so concurrent checkouts and cart mutations
// against the same rows serialize at the storage layer. An empty
// result means there is nothing to purchase; the returned cart id is
// zero in that case.
func (r *CartRepo) ItemsForUpdateTx(ctx context.Context, tx *sql.Tx, customerID uint64) (uint64, []CheckoutLine, error) {
    const q = `SELECT c.id, ci.isbn, b.title, ci.quantity, b.price_cents
               FROM carts c
               JOIN cart_items ci ON ci.cart_id = c.id
               JOIN books b ON b.isbn = ci.isbn
               WHERE c.customer_id = ?
               ORDER BY ci.id
               FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, customerID)
    if err != nil {
        return 0, nil, err
    }
    defer rows.Close()
    var cartID uint64
    lines := make([]CheckoutLine, 0)
    for rows.Next() {
        var ln CheckoutLine
        if err := rows.Scan(&cartID, &ln.ISBN, &ln.Title, &ln.Quantity, &ln.UnitPriceCents); err != nil {
            return 0, nil, err
        }
        lines = append(lines, ln)
    }
    if err := rows.Err(); err != nil {
        return 0, nil, err
    }
    return cartID, lines, nil
}

// cartID resolves the customer's cart without creating one. Mutations
// against a customer who never added anything report ErrItemNotInCart,
// matching what the caller would see with an empty cart.
func (r *CartRepo) cartID(ctx context.Context, customerID uint64) (uint64, error) {
    var id uint64
    err := r.db.QueryRowContext(ctx,
        "SELECT id FROM carts WHERE customer_id=? LIMIT 1", customerID).Scan(&id)
    if err == sql.ErrNoRows {
        return 0, ErrItemNotInCart
    }
    return id, err
}
