package model

// Cart states as stored in carritos.estado. A cart is created ABIERTO,
// transitions to PAGADO exactly once at checkout and is then terminal.
const (
    CartStatusOpen = "ABIERTO"
    CartStatusPaid = "PAGADO"
)

// Cart represents a row in the `carritos` table. At most one cart per
// client may be ABIERTO at any time; the schema enforces this with a
// unique key over (cliente_id, abierto).
//
// Fields:
//  ID         – primary key identifier.
//  ClientID   – owner of the cart.
//  Status     – ABIERTO or PAGADO.
//  TotalCents – sum of the line amounts, maintained in the same
//               transaction as every item insert.
type Cart struct {
    ID         uint64 // carritos.id
    ClientID   uint64 // carritos.cliente_id
    Status     string // carritos.estado
    TotalCents int64  // carritos.total_cents
}

// CartItem represents a row in the `carrito_peliculas` table. The unit
// price is snapshotted when the movie is added so later catalog price
// changes do not affect an open cart. Item rows are never updated in
// place; adding the same movie twice is a conflict, not a quantity
// increment.
type CartItem struct {
    ID             uint64 // carrito_peliculas.id
    CartID         uint64 // carrito_peliculas.carrito_id
    MovieID        uint64 // carrito_peliculas.pelicula_id
    Quantity       int    // carrito_peliculas.cantidad
    UnitPriceCents int64  // carrito_peliculas.precio_unitario_cents
}

// CartLine is the read model for GET /cart: a cart item joined with the
// movie it refers to.
type CartLine struct {
    MovieID        uint64  `json:"movieid"`
    Title          string  `json:"title"`
    UnitPriceCents int64   `json:"-"`
    Price          float64 `json:"price"`
    Quantity       int     `json:"quantity"`
}
