package model

import "time"

// Book mirrors a row of the `books` table.  The stock counter is the
// authoritative ledger for checkout: it is decremented only by a
// completed purchase, never by adding to a cart, and may never go
// negative.  ReorderThreshold marks the level at which a
// replenishment alert is raised for the publisher workflow.
//
// Fields:
//  ISBN             – primary key, the book's ISBN.
//  Title            – display title.
//  Author           – author name.
//  Category         – catalog category used for browsing.
//  PriceCents       – current catalog price in cents.
//  Stock            – units available for sale (>= 0 at all times).
//  ReorderThreshold – stock level that triggers a replenishment alert.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type Book struct {
    ISBN             string    // books.isbn
    Title            string    // books.title
    Author           string    // books.author
    Category         string    // books.category
    PriceCents       uint32    // books.price_cents
    Stock            uint32    // books.stock
    ReorderThreshold uint32    // books.reorder_threshold
    CreatedAt        time.Time // books.created_at
    UpdatedAt        time.Time // books.updated_at
}
