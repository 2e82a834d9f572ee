// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto the HTTP error taxonomy: validation failures become 400,
// missing rows 404, conflicting state 409.
package repository

import (
    "errors"
    "strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrCartExists is returned by a direct cart create when the customer
// already owns a cart. Read-path callers use GetOrCreate instead and
// never see this.
var ErrCartExists = errors.New("cart already exists")

// ErrItemNotInCart is returned by cart mutations that target a
// (cart, isbn) pair with no row. Handlers translate it into 404.
var ErrItemNotInCart = errors.New("item not in cart")

// ErrInvalidQuantity is returned when a cart mutation is asked to
// store a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrCannotDecrementBelowOne is returned when decrementing a
// quantity-1 row. The row is left untouched; deleting it requires an
// explicit remove.
var ErrCannotDecrementBelowOne = errors.New("cannot decrement below one")

// ErrBookNotFound is returned when an ISBN has no row in the catalog.
var ErrBookNotFound = errors.New("book not found")

// ErrBookExists is returned when creating a book whose ISBN is
// already in the catalog.
var ErrBookExists = errors.New("book already exists")

// ErrInsufficientStock is returned by the conditional stock decrement
// when applying it would drive the stock level negative. During
// checkout it aborts the whole transaction so no part of the order
// becomes visible.
var ErrInsufficientStock = errors.New("insufficient stock")

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (code 1062), used to map unique-constraint violations onto domain
// conflicts.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKViolation reports whether err is a MySQL foreign-key error
// (code 1452), raised e.g. when a cart item references an ISBN the
// catalog does not carry.
func isFKViolation(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1452")
}
