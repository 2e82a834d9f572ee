package repository

import (
    "context"
    "database/sql"

    "github.com/ziad540/Order-Processing-System-sub000/internal/model"
)

// BookRepo owns the catalog stock ledger: per-ISBN stock levels,
// reorder thresholds and current prices. Stock is decremented only by
// a completed checkout through DecrementStockTx; adding to a cart
// never reserves or deducts anything.
type BookRepo struct {
    db *sql.DB
}

// NewBookRepo returns a new BookRepo bound to the given database.
func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

// GetByISBN loads a single book. ErrBookNotFound is returned when the
// ISBN is not in the catalog.
func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (model.Book, error) {
    var b model.Book
    err := r.db.QueryRowContext(ctx,
        "SELECT isbn,title,author,category,price_cents,stock,reorder_threshold,created_at,updated_at FROM books WHERE isbn=? LIMIT 1",
        isbn).Scan(&b.ISBN, &b.Title, &b.Author, &b.Category, &b.PriceCents, &b.Stock, &b.ReorderThreshold, &b.CreatedAt, &b.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Book{}, ErrBookNotFound
    }
    return b, err
}

// List returns catalog rows for browsing, optionally filtered by
// category. This is a read-only projection with no consistency
// requirements; the stock figure shown here is advisory.
func (r *BookRepo) List(ctx context.Context, category string) ([]model.Book, error) {
    const base = "SELECT isbn,title,author,category,price_cents,stock,reorder_threshold,created_at,updated_at FROM books"
    var (
        rows *sql.Rows
        err  error
    )
    if category != "" {
        rows, err = r.db.QueryContext(ctx, base+" WHERE category=? ORDER BY title", category)
    } else {
        rows, err = r.db.QueryContext(ctx, base+" ORDER BY title")
    }
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    books := make([]model.Book, 0)
    for rows.Next() {
        var b model.Book
        if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Category, &b.PriceCents, &b.Stock, &b.ReorderThreshold, &b.CreatedAt, &b.UpdatedAt); err != nil {
            return nil, err
        }
        books = append(books, b)
    }
    return books, rows.Err()
}

// Create inserts a catalog row. ErrBookExists is returned when the
// ISBN is already present.
func (r *BookRepo) Create(ctx context.Context, b model.Book) error {
    _, err := r.db.ExecContext(ctx,
        "INSERT INTO books (isbn,title,author,category,price_cents,stock,reorder_threshold) VALUES (?,?,?,?,?,?,?)",
        b.ISBN, b.Title, b.Author, b.Category, b.PriceCents, b.Stock, b.ReorderThreshold)
    if isDuplicateKey(err) {
        return ErrBookExists
    }
    return err
}

// DecrementStockTx atomically deducts qty units from a book's stock
// inside the caller's transaction. The UPDATE carries the guard
// `stock >= qty`, so a decrement that would violate the non-negative
// invariant matches no row and the stock level is left untouched; in
// that case ErrInsufficientStock is returned (ErrBookNotFound when the
// ISBN does not exist at all) and the caller must roll back the whole
// unit of work. On success the remaining stock and the reorder
// threshold are returned so the caller can raise a replenishment
// alert after commit.
func (r *BookRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, isbn string, qty uint32) (remaining, threshold uint32, err error) {
    res, err := tx.ExecContext(ctx,
        "UPDATE books SET stock = stock - ? WHERE isbn = ? AND stock >= ?",
        qty, isbn, qty)
    if err != nil {
        return 0, 0, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, 0, err
    }
    if n == 0 {
        // Distinguish an unknown ISBN from a stock shortfall.
        var stock uint32
        err = tx.QueryRowContext(ctx, "SELECT stock FROM books WHERE isbn = ?", isbn).Scan(&stock)
        if err == sql.ErrNoRows {
            return 0, 0, ErrBookNotFound
        }
        if err != nil {
            return 0, 0, err
        }
        return 0, 0, ErrInsufficientStock
    }
    err = tx.QueryRowContext(ctx,
        "SELECT stock, reorder_threshold FROM books WHERE isbn = ?",
        isbn).Scan(&remaining, &threshold)
    return remaining, threshold, err
}

// AddStock increments a book's stock level, used by the admin
// replenishment endpoint when a publisher delivery arrives. It
// returns the new stock level. ErrBookNotFound is returned for an
// unknown ISBN.
func (r *BookRepo) AddStock(ctx context.Context, isbn string, qty uint32) (uint32, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE books SET stock = stock + ? WHERE isbn = ?",
        qty, isbn)
    if err != nil {
        return 0, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, err
    }
    if n == 0 {
        return 0, ErrBookNotFound
    }
    var stock uint32
    err = r.db.QueryRowContext(ctx, "SELECT stock FROM books WHERE isbn = ?", isbn).Scan(&stock)
    return stock, err
}

// ListBelowThreshold returns books whose stock has fallen to or below
// their reorder threshold, ordered by how badly they need restocking.
// It backs the admin low-stock report.
func (r *BookRepo) ListBelowThreshold(ctx context.Context) ([]model.Book, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT isbn,title,author,category,price_cents,stock,reorder_threshold,created_at,updated_at FROM books WHERE stock <= reorder_threshold ORDER BY stock, isbn")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    books := make([]model.Book, 0)
    for rows.Next() {
        var b model.Book
        if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Category, &b.PriceCents, &b.Stock, &b.ReorderThreshold, &b.CreatedAt, &b.UpdatedAt); err != nil {
            return nil, err
        }
        books = append(books, b)
    }
    return books, rows.Err()
}
