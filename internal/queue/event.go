// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderLineEvent is one purchased line inside an OrderPlacedEvent.
type OrderLineEvent struct {
    ISBN           string `json:"isbn"`
    Title          string `json:"title"`
    Quantity       uint32 `json:"quantity"`
    UnitPriceCents uint32 `json:"unit_price_cents"`
}

// OrderPlacedEvent is published after a checkout transaction commits.
// It is emitted strictly after commit: the broker never sees an order
// whose stock decrement and cart clear are not already durable. It
// contains enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type OrderPlacedEvent struct {
    OrderID    uint64           `json:"order_id"`
    UserID     uint64           `json:"user_id"`
    TotalCents uint64           `json:"total_cents"`
    Items      []OrderLineEvent `json:"items"`
    PlacedAt   string           `json:"placed_at"`
}

// StockLowEvent is published when a checkout's stock decrement leaves
// a book at or below its reorder threshold. The publisher
// replenishment workflow consumes these to schedule reorders; the
// event is advisory and carries no consistency requirement.
type StockLowEvent struct {
    ISBN             string `json:"isbn"`
    Title            string `json:"title"`
    Stock            uint32 `json:"stock"`
    ReorderThreshold uint32 `json:"reorder_threshold"`
}
