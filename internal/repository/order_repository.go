package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/ziad540/Order-Processing-System-sub000/internal/model"
)

// OrderRepo provides access to completed sales transactions in the
// `orders` and `order_items` tables. Orders are created only inside a
// checkout transaction and are immutable afterwards; every read here
// is a projection over rows that never change, which is what makes
// them safe for the reporting queries to aggregate.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts the order header within the scope of an existing
// transaction. It populates the generated ID and creation timestamp
// on the provided record. The caller must commit or roll back the
// transaction; until commit, nothing of the order is visible.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
    res, err := tx.ExecContext(ctx,
        "INSERT INTO orders (customer_id, payment_ref, total_cents) VALUES (?,?,?)",
        o.CustomerID, o.PaymentRef, o.TotalCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    // Query back the row to populate the DB-assigned timestamp.
    return tx.QueryRowContext(ctx,
        "SELECT created_at FROM orders WHERE id = ?", o.ID).Scan(&o.CreatedAt)
}

// CreateItemsBulkTx inserts all line items of an order in a single
// statement. Each line captures the unit price used for the total, so
// later catalog price changes never rewrite history. Passing an empty
// slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
    if len(items) == 0 {
        return nil
    }
    query := "INSERT INTO order_items (order_id, isbn, quantity, unit_price_cents) VALUES "
    args := make([]interface{}, 0, len(items)*4)
    for i, it := range items {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, it.OrderID, it.ISBN, it.Quantity, it.UnitPriceCents)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// OrderLine is a line item of an order as returned to clients, joined
// with the catalog for the title.
type OrderLine struct {
    ISBN           string `json:"isbn"`
    Title          string `json:"title"`
    Quantity       uint32 `json:"quantity"`
    UnitPriceCents uint32 `json:"unit_price_cents"`
}

// OrderDetail is an order with its line items, as returned by the
// customer order-history endpoints.
type OrderDetail struct {
    ID         uint64      `json:"id"`
    PaymentRef string      `json:"payment_ref"`
    TotalCents uint64      `json:"total_cents"`
    CreatedAt  time.Time   `json:"created_at"`
    Items      []OrderLine `json:"items"`
}

// GetByIDForUser returns a single order for the given customer.
// Restricting on customer_id enforces ownership; sql.ErrNoRows covers
// both a missing order and one belonging to someone else.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, customerID uint64) (*OrderDetail, error) {
    var det OrderDetail
    err := r.db.QueryRowContext(ctx,
        "SELECT id, payment_ref, total_cents, created_at FROM orders WHERE id = ? AND customer_id = ?",
        orderID, customerID).Scan(&det.ID, &det.PaymentRef, &det.TotalCents, &det.CreatedAt)
    if err != nil {
        return nil, err
    }
    det.Items = make([]OrderLine, 0)
    const itemQ = `SELECT oi.isbn, b.title, oi.quantity, oi.unit_price_cents
                   FROM order_items oi
                   JOIN books b ON b.isbn = oi.isbn
                   WHERE oi.order_id = ?
                   ORDER BY oi.id`
    rows, err := r.db.QueryContext(ctx, itemQ, det.ID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var ln OrderLine
        if err := rows.Scan(&ln.ISBN, &ln.Title, &ln.Quantity, &ln.UnitPriceCents); err != nil {
            return nil, err
        }
        det.Items = append(det.Items, ln)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &det, nil
}

// ListByUser returns all orders of a customer, newest first, with
// their line items populated in a second batched query.
func (r *OrderRepo) ListByUser(ctx context.Context, customerID uint64) ([]OrderDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, payment_ref, total_cents, created_at FROM orders WHERE customer_id = ? ORDER BY created_at DESC, id DESC",
        customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]OrderDetail, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var d OrderDetail
        if err := rows.Scan(&d.ID, &d.PaymentRef, &d.TotalCents, &d.CreatedAt); err != nil {
            return nil, err
        }
        d.Items = make([]OrderLine, 0)
        index[d.ID] = len(details)
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(details) == 0 {
        return details, nil
    }
    // Fetch line items for all orders in one query.
    ids := make([]interface{}, 0, len(details))
    placeholders := make([]string, 0, len(details))
    for _, d := range details {
        ids = append(ids, d.ID)
        placeholders = append(placeholders, "?")
    }
    itemQ := `SELECT oi.order_id, oi.isbn, b.title, oi.quantity, oi.unit_price_cents
              FROM order_items oi
              JOIN books b ON b.isbn = oi.isbn
              WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
              ORDER BY oi.order_id, oi.id`
    irows, err := r.db.QueryContext(ctx, itemQ, ids...)
    if err != nil {
        return nil, err
    }
    defer irows.Close()
    for irows.Next() {
        var oid uint64
        var ln OrderLine
        if err := irows.Scan(&oid, &ln.ISBN, &ln.Title, &ln.Quantity, &ln.UnitPriceCents); err != nil {
            return nil, err
        }
        idx, ok := index[oid]
        if !ok {
            continue
        }
        details[idx].Items = append(details[idx].Items, ln)
    }
    if err := irows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// BookSales aggregates sold units and revenue for one title.
type BookSales struct {
    ISBN         string `json:"isbn"`
    Title        string `json:"title"`
    UnitsSold    uint64 `json:"units_sold"`
    RevenueCents uint64 `json:"revenue_cents"`
}

// SalesReport is the admin reporting projection: overall order count
// and revenue plus a per-book breakdown. It only ever reads order and
// order-item rows.
type SalesReport struct {
    OrderCount   uint64      `json:"order_count"`
    RevenueCents uint64      `json:"revenue_cents"`
    Books        []BookSales `json:"books"`
}

// Sales builds the sales report over all completed orders. Revenue in
// the per-book breakdown is pre-tax (captured unit price times
// quantity); the headline revenue is the sum of order totals, tax
// included.
func (r *OrderRepo) Sales(ctx context.Context) (*SalesReport, error) {
    var rep SalesReport
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*), COALESCE(SUM(total_cents),0) FROM orders").
        Scan(&rep.OrderCount, &rep.RevenueCents)
    if err != nil {
        return nil, err
    }
    const q = `SELECT oi.isbn, b.title, SUM(oi.quantity), SUM(oi.quantity * oi.unit_price_cents)
               FROM order_items oi
               JOIN books b ON b.isbn = oi.isbn
               GROUP BY oi.isbn, b.title
               ORDER BY SUM(oi.quantity * oi.unit_price_cents) DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    rep.Books = make([]BookSales, 0)
    for rows.Next() {
        var bs BookSales
        if err := rows.Scan(&bs.ISBN, &bs.Title, &bs.UnitsSold, &bs.RevenueCents); err != nil {
            return nil, err
        }
        rep.Books = append(rep.Books, bs)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &rep, nil
}
