package repository

import (
    "context"
    "database/sql"
)

// CardRepo persists payment instruments in the `payment_cards` table.
// Only the masked card number is ever stored. The table exists to
// satisfy the referential shape of order records: an order carries a
// payment reference to a card on file for the customer.
type CardRepo struct {
    db *sql.DB
}

// NewCardRepo returns a new CardRepo bound to the given database.
func NewCardRepo(db *sql.DB) *CardRepo { return &CardRepo{db: db} }

// UpsertTx registers the card for the customer if it is not already
// on file, inside the caller's transaction. Re-registering the same
// card is a silent success (INSERT IGNORE against the unique
// customer/card key), never a duplicate-card error, so repeated
// checkouts with the same card stay idempotent on this table.
func (r *CardRepo) UpsertTx(ctx context.Context, tx *sql.Tx, customerID uint64, cardMasked string) error {
    _, err := tx.ExecContext(ctx,
        "INSERT IGNORE INTO payment_cards (customer_id, card_masked) VALUES (?,?)",
        customerID, cardMasked)
    return err
}
