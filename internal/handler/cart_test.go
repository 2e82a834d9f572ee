package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// newJSONContext builds an authenticated echo context carrying a JSON
// body, the way requests arrive after JWTAuth ran.
func newJSONContext(t *testing.T, method, path, body string, uid uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	return c, rec
}

func TestCartUpdateQuantity_RejectsOverflow(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCartHandler(repository.NewCartRepo(db), repository.NewBookRepo(db))

	// 2^32+1 would truncate to 1 in the stored uint32 column while the
	// response echoed the huge figure back as a success.
	c, rec := newJSONContext(t, http.MethodPost, "/v1/cart/items/quantity",
		`{"isbn":"isbn-1","quantity":4294967297}`, 7)

	require.NoError(t, h.UpdateQuantity(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_quantity")
	// Nothing may reach the database on a rejected quantity.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAddItem_RejectsOverflow(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCartHandler(repository.NewCartRepo(db), repository.NewBookRepo(db))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/cart/items",
		`{"isbn":"isbn-1","quantity":4294967297}`, 7)

	require.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_quantity")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartUpdateQuantity_MaxUint32StillAccepted(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCartHandler(repository.NewCartRepo(db), repository.NewBookRepo(db))

	mock.ExpectQuery("SELECT id FROM carts WHERE customer_id=? LIMIT 1").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE cart_items SET quantity=? WHERE cart_id=? AND isbn=?").
		WithArgs(uint32(4294967295), uint64(3), "isbn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/cart/items/quantity",
		`{"isbn":"isbn-1","quantity":4294967295}`, 7)

	require.NoError(t, h.UpdateQuantity(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
