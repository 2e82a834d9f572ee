package model

import "time"

// Cart mirrors a row of the `carts` table.  A customer owns exactly
// one cart, created lazily on the first add-to-cart call and reused
// across sessions; carts are never deleted, only emptied.
type Cart struct {
    ID         uint64    // carts.id
    CustomerID uint64    // carts.customer_id (unique)
    CreatedAt  time.Time // carts.created_at
    UpdatedAt  time.Time // carts.updated_at
}

// CartItem mirrors a row of the `cart_items` table.  ISBN is unique
// within a cart, so repeated adds of the same book merge into one row
// by summing quantities.  Quantity is always >= 1: a quantity that
// would reach zero removes the row instead of persisting a zero.
type CartItem struct {
    ID        uint64    // cart_items.id
    CartID    uint64    // cart_items.cart_id
    ISBN      string    // cart_items.isbn
    Quantity  uint32    // cart_items.quantity (>= 1)
    CreatedAt time.Time // cart_items.created_at
    UpdatedAt time.Time // cart_items.updated_at
}
