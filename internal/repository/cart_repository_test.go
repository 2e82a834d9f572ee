package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectCartID = "SELECT id FROM carts WHERE customer_id=? LIMIT 1"
const upsertItem = "INSERT INTO cart_items (cart_id, isbn, quantity) VALUES (?,?,?) ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)"
const selectQuantity = "SELECT quantity FROM cart_items WHERE cart_id=? AND isbn=?"

func TestAddItem_FreshInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	// One affected row is MySQL's signal for a plain insert.
	mock.ExpectExec(upsertItem).WithArgs(uint64(3), "isbn-1", uint32(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectQuantity).WithArgs(uint64(3), "isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(2))

	qty, merged, err := repo.AddItem(context.Background(), 7, "isbn-1", 2)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, uint32(2), qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItem_MergeSumsQuantities(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	// Two affected rows is MySQL's signal for a duplicate-key update:
	// the item was already in the cart and the quantities were summed.
	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(upsertItem).WithArgs(uint64(3), "isbn-1", uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(selectQuantity).WithArgs(uint64(3), "isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))

	qty, merged, err := repo.AddItem(context.Background(), 7, "isbn-1", 3)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, uint32(5), qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItem_RejectsZeroQuantity(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewCartRepo(db)

	_, _, err := repo.AddItem(context.Background(), 7, "isbn-1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddItem_CreatesCartOnFirstUse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO carts (customer_id) VALUES (?)").WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(upsertItem).WithArgs(uint64(3), "isbn-1", uint32(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectQuantity).WithArgs(uint64(3), "isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))

	qty, merged, err := repo.AddItem(context.Background(), 7, "isbn-1", 1)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, uint32(1), qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementOne_ClampsAtOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	// The guard quantity > 1 keeps a quantity-1 row untouched; the
	// follow-up read distinguishes the clamp from a missing row.
	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE cart_items SET quantity = quantity - 1 WHERE cart_id=? AND isbn=? AND quantity > 1").
		WithArgs(uint64(3), "isbn-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT quantity FROM cart_items WHERE cart_id=? AND isbn=? LIMIT 1").
		WithArgs(uint64(3), "isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))

	err := repo.DecrementOne(context.Background(), 7, "isbn-1")
	assert.ErrorIs(t, err, ErrCannotDecrementBelowOne)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementOne_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE cart_items SET quantity = quantity - 1 WHERE cart_id=? AND isbn=? AND quantity > 1").
		WithArgs(uint64(3), "isbn-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT quantity FROM cart_items WHERE cart_id=? AND isbn=? LIMIT 1").
		WithArgs(uint64(3), "isbn-404").
		WillReturnError(sql.ErrNoRows)

	err := repo.DecrementOne(context.Background(), 7, "isbn-404")
	assert.ErrorIs(t, err, ErrItemNotInCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementOne_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE cart_items SET quantity = quantity - 1 WHERE cart_id=? AND isbn=? AND quantity > 1").
		WithArgs(uint64(3), "isbn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DecrementOne(context.Background(), 7, "isbn-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("DELETE FROM cart_items WHERE cart_id=? AND isbn=?").
		WithArgs(uint64(3), "isbn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateQuantity(context.Background(), 7, "isbn-1", 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantity_SameValueIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	// MySQL reports zero affected rows when the stored value already
	// equals the new one; the row exists, so that is a success.
	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE cart_items SET quantity=? WHERE cart_id=? AND isbn=?").
		WithArgs(uint32(4), uint64(3), "isbn-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM cart_items WHERE cart_id=? AND isbn=? LIMIT 1").
		WithArgs(uint64(3), "isbn-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := repo.UpdateQuantity(context.Background(), 7, "isbn-1", 4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItem_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("DELETE FROM cart_items WHERE cart_id=? AND isbn=?").
		WithArgs(uint64(3), "isbn-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveItem(context.Background(), 7, "isbn-404")
	assert.ErrorIs(t, err, ErrItemNotInCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationWithoutCart(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(selectCartID).WithArgs(uint64(9)).
		WillReturnError(sql.ErrNoRows)

	err := repo.IncrementOne(context.Background(), 9, "isbn-1")
	assert.ErrorIs(t, err, ErrItemNotInCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}
