package handler

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

func TestOrderTotalCents(t *testing.T) {
	cases := []struct {
		name       string
		subtotal   uint64
		taxPercent int
		want       uint64
	}{
		{"two books at ten dollars", 2000, 8, 2160},
		{"single cheap item", 100, 8, 108},
		{"rounds half up", 99, 8, 107},    // 106.92 -> 107
		{"rounds down", 50, 8, 54},        // 54.00 exact
		{"zero subtotal", 0, 8, 0},
		{"zero tax", 12345, 0, 12345},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, orderTotalCents(tc.subtotal, tc.taxPercent))
		})
	}
}

func TestOrderTotalCents_AppliedOnce(t *testing.T) {
	// Tax applies to the whole subtotal exactly once; taxing an
	// already-taxed total would give a different number.
	subtotal := uint64(10000)
	once := orderTotalCents(subtotal, 8)
	twice := orderTotalCents(once, 8)
	assert.Equal(t, uint64(10800), once)
	assert.NotEqual(t, once, twice)
}

const lockCartLines = "SELECT c.id, ci.isbn, b.title, ci.quantity, b.price_cents " +
	"FROM carts c " +
	"JOIN cart_items ci ON ci.cart_id = c.id " +
	"JOIN books b ON b.isbn = ci.isbn " +
	"WHERE c.customer_id = ? " +
	"ORDER BY ci.id " +
	"FOR UPDATE"

const validCard = "4532015112830366"
const maskedCard = "************0366"

func TestPurchase_CommitsWholeOrder(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCheckoutHandler(
		repository.NewCartRepo(db),
		repository.NewBookRepo(db),
		repository.NewOrderRepo(db),
		repository.NewCardRepo(db),
		8,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(lockCartLines).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "isbn", "title", "quantity", "price_cents"}).
			AddRow(3, "isbn-1", "The Go Programming Language", 2, 1000))
	mock.ExpectExec("INSERT IGNORE INTO payment_cards (customer_id, card_masked) VALUES (?,?)").
		WithArgs(uint64(7), maskedCard).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO orders (customer_id, payment_ref, total_cents) VALUES (?,?,?)").
		WithArgs(uint64(7), maskedCard, uint64(2160)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT created_at FROM orders WHERE id = ?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("INSERT INTO order_items (order_id, isbn, quantity, unit_price_cents) VALUES (?, ?, ?, ?)").
		WithArgs(uint64(11), "isbn-1", uint32(2), uint32(1000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE books SET stock = stock - ? WHERE isbn = ? AND stock >= ?").
		WithArgs(uint32(2), "isbn-1", uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT stock, reorder_threshold FROM books WHERE isbn = ?").
		WithArgs("isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"stock", "reorder_threshold"}).AddRow(8, 2))
	mock.ExpectExec("DELETE FROM cart_items WHERE cart_id = ?").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(t, http.MethodPost, "/v1/checkout/purchase",
		`{"card_number":"`+validCard+`"}`, 7)

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order_id":11`)
	assert.Contains(t, rec.Body.String(), `"total_cents":2160`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_EmptyCart(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCheckoutHandler(
		repository.NewCartRepo(db),
		repository.NewBookRepo(db),
		repository.NewOrderRepo(db),
		repository.NewCardRepo(db),
		8,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(lockCartLines).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "isbn", "title", "quantity", "price_cents"}))
	mock.ExpectRollback()

	c, rec := newJSONContext(t, http.MethodPost, "/v1/checkout/purchase",
		`{"card_number":"`+validCard+`"}`, 7)

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_cart")
	// No order row was attempted; the transaction rolled back clean.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_BadCardTouchesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCheckoutHandler(
		repository.NewCartRepo(db),
		repository.NewBookRepo(db),
		repository.NewOrderRepo(db),
		repository.NewCardRepo(db),
		8,
	)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/checkout/purchase",
		`{"card_number":"1234567890123"}`, 7)

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_card")
	// Card validation fails before any database work, so not even a
	// transaction begin may have happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCheckoutHandler(
		repository.NewCartRepo(db),
		repository.NewBookRepo(db),
		repository.NewOrderRepo(db),
		repository.NewCardRepo(db),
		8,
	)

	// Two lines: the first decrement succeeds inside the transaction,
	// the second hits the stock guard. The rollback must undo the
	// order header, the line items and the first decrement together,
	// and the cart survives for the customer to adjust.
	mock.ExpectBegin()
	mock.ExpectQuery(lockCartLines).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "isbn", "title", "quantity", "price_cents"}).
			AddRow(3, "isbn-1", "The Go Programming Language", 1, 1000).
			AddRow(3, "isbn-2", "The Rust Programming Language", 2, 2000))
	mock.ExpectExec("INSERT IGNORE INTO payment_cards (customer_id, card_masked) VALUES (?,?)").
		WithArgs(uint64(7), maskedCard).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO orders (customer_id, payment_ref, total_cents) VALUES (?,?,?)").
		WithArgs(uint64(7), maskedCard, uint64(5400)).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery("SELECT created_at FROM orders WHERE id = ?").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("INSERT INTO order_items (order_id, isbn, quantity, unit_price_cents) VALUES (?, ?, ?, ?),(?, ?, ?, ?)").
		WithArgs(uint64(12), "isbn-1", uint32(1), uint32(1000), uint64(12), "isbn-2", uint32(2), uint32(2000)).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec("UPDATE books SET stock = stock - ? WHERE isbn = ? AND stock >= ?").
		WithArgs(uint32(1), "isbn-1", uint32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT stock, reorder_threshold FROM books WHERE isbn = ?").
		WithArgs("isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"stock", "reorder_threshold"}).AddRow(9, 2))
	mock.ExpectExec("UPDATE books SET stock = stock - ? WHERE isbn = ? AND stock >= ?").
		WithArgs(uint32(2), "isbn-2", uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock FROM books WHERE isbn = ?").
		WithArgs("isbn-2").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(1))
	mock.ExpectRollback()

	c, rec := newJSONContext(t, http.MethodPost, "/v1/checkout/purchase",
		`{"card_number":"`+validCard+`"}`, 7)

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_stock")
	assert.Contains(t, rec.Body.String(), "isbn-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_BookVanishedMidCheckout(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCheckoutHandler(
		repository.NewCartRepo(db),
		repository.NewBookRepo(db),
		repository.NewOrderRepo(db),
		repository.NewCardRepo(db),
		8,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(lockCartLines).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "isbn", "title", "quantity", "price_cents"}).
			AddRow(3, "isbn-gone", "Out Of Print", 1, 1500))
	mock.ExpectExec("INSERT IGNORE INTO payment_cards (customer_id, card_masked) VALUES (?,?)").
		WithArgs(uint64(7), maskedCard).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO orders (customer_id, payment_ref, total_cents) VALUES (?,?,?)").
		WithArgs(uint64(7), maskedCard, uint64(1620)).
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectQuery("SELECT created_at FROM orders WHERE id = ?").
		WithArgs(uint64(13)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("INSERT INTO order_items (order_id, isbn, quantity, unit_price_cents) VALUES (?, ?, ?, ?)").
		WithArgs(uint64(13), "isbn-gone", uint32(1), uint32(1500)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE books SET stock = stock - ? WHERE isbn = ? AND stock >= ?").
		WithArgs(uint32(1), "isbn-gone", uint32(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock FROM books WHERE isbn = ?").
		WithArgs("isbn-gone").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := newJSONContext(t, http.MethodPost, "/v1/checkout/purchase",
		`{"card_number":"`+validCard+`"}`, 7)

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "book_not_found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
