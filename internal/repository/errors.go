// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrMovieAlreadyInCart signals that a duplicate cart line was
// rejected by the unique key on (carrito_id, pelicula_id), while
// ErrInsufficientFunds means a checkout was refused before any state
// changed.
package repository

import "errors"

// ErrClientNotFound is returned when an operation references a client
// id that does not exist. Handlers translate this into HTTP 404.
var ErrClientNotFound = errors.New("client not found")

// ErrMovieNotFound is returned when an operation references a movie id
// that does not exist. Handlers translate this into HTTP 404.
var ErrMovieNotFound = errors.New("movie not found")

// ErrMovieAlreadyInCart is returned when the movie is already a line of
// the client's open cart. Duplicate adds are rejected, never merged
// into a quantity. Handlers translate this into HTTP 409.
var ErrMovieAlreadyInCart = errors.New("movie already in cart")

// ErrOutOfStock is returned when adding a movie whose stock is already
// zero. The decrement is conditional (stock > 0) so the counter can
// never go negative. Handlers translate this into HTTP 409.
var ErrOutOfStock = errors.New("movie out of stock")

// ErrInsufficientFunds is returned when the client balance cannot cover
// the discounted cart total. Handlers translate this into HTTP 402.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNameExists is returned when registering a client whose name is
// already taken. Handlers translate this into HTTP 409.
var ErrNameExists = errors.New("name already exists")

// ErrClientHasData is returned when deleting a client the engine still
// holds referencing rows for (carts, sales, ratings). The client row is
// untouched. Handlers translate this into HTTP 409.
var ErrClientHasData = errors.New("client still has dependent data")
