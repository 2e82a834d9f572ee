package model

import "time"

// Order mirrors a row of the `orders` table.  An order is created
// only by a successful checkout and is immutable afterwards; it is
// the sole write surface the reporting queries read from.
//
// Fields:
//  ID         – primary key of the order.
//  CustomerID – user who placed the order.
//  PaymentRef – masked reference to the payment card used.
//  TotalCents – grand total in cents, tax included.
//  CreatedAt  – checkout timestamp.
type Order struct {
    ID         uint64    // orders.id
    CustomerID uint64    // orders.customer_id
    PaymentRef string    // orders.payment_ref
    TotalCents uint64    // orders.total_cents
    CreatedAt  time.Time // orders.created_at
}

// OrderItem mirrors a row of the `order_items` table.  UnitPriceCents
// is the catalog price captured at checkout time and is never
// recomputed from the current price, preserving historical accuracy.
type OrderItem struct {
    ID             uint64 // order_items.id
    OrderID        uint64 // order_items.order_id
    ISBN           string // order_items.isbn
    Quantity       uint32 // order_items.quantity
    UnitPriceCents uint32 // order_items.unit_price_cents
}

// PaymentCard mirrors a row of the `payment_cards` table.  A card is
// registered for a customer on first use at checkout (upsert, never a
// duplicate-card error) so order records can reference an instrument
// on file.  Only the masked form of the number is stored.
type PaymentCard struct {
    ID         uint64    // payment_cards.id
    CustomerID uint64    // payment_cards.customer_id
    CardMasked string    // payment_cards.card_masked
    CreatedAt  time.Time // payment_cards.created_at
}
