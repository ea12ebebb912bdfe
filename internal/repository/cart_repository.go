package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/movie-store/internal/model"
)

// CartRepo owns the cart lifecycle and the two transactional workflows
// the legacy database implemented with triggers: adding a movie to the
// open cart (item insert + stock decrement + total recompute) and
// checkout (state flip + balance debit + settlement rows). Each
// workflow is a single transaction; derived state is written in the
// same commit as the row change that causes it.
type CartRepo struct {
    db *sql.DB
}

// NewCartRepo returns a new CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// AddItemResult reports the cart a movie was added to.
type AddItemResult struct {
    CartID  uint64
    MovieID uint64
}

// AddItem puts one unit of the movie into the client's open cart,
// creating the cart when none exists. The whole workflow runs in one
// transaction:
//
//   1. client existence check
//   2. movie row locked and price snapshotted
//   3. open cart selected FOR UPDATE, or inserted (a duplicate-key
//      rejection from the (cliente_id, abierto) unique key means a
//      concurrent request created it first, so it is re-selected)
//   4. item insert; the (carrito_id, pelicula_id) unique key turns a
//      duplicate add into ErrMovieAlreadyInCart
//   5. conditional stock decrement (stock > 0) so stock never goes
//      negative; zero rows affected means ErrOutOfStock
//   6. cart total increased by the snapshotted price
func (r *CartRepo) AddItem(ctx context.Context, clientID, movieID uint64) (*AddItemResult, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var exists uint64
    err = tx.QueryRowContext(ctx, `SELECT id FROM clientes WHERE id = ?`, clientID).Scan(&exists)
    if err == sql.ErrNoRows {
        return nil, ErrClientNotFound
    }
    if err != nil {
        return nil, err
    }

    var priceCents int64
    err = tx.QueryRowContext(ctx,
        `SELECT precio_cents FROM peliculas WHERE id = ? FOR UPDATE`, movieID).Scan(&priceCents)
    if err == sql.ErrNoRows {
        return nil, ErrMovieNotFound
    }
    if err != nil {
        return nil, err
    }

    cartID, err := openCartForUpdateTx(ctx, tx, clientID, true)
    if err != nil {
        return nil, err
    }

    _, err = tx.ExecContext(ctx,
        `INSERT INTO carrito_peliculas (carrito_id, pelicula_id, cantidad, precio_unitario_cents)
         VALUES (?, ?, 1, ?)`,
        cartID, movieID, priceCents)
    if err != nil {
        if isMySQLErr(err, erDupEntry) {
            return nil, ErrMovieAlreadyInCart
        }
        return nil, err
    }

    res, err := tx.ExecContext(ctx,
        `UPDATE peliculas SET stock = stock - 1 WHERE id = ? AND stock > 0`, movieID)
    if err != nil {
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        return nil, ErrOutOfStock
    }

    if _, err := tx.ExecContext(ctx,
        `UPDATE carritos SET total_cents = total_cents + ? WHERE id = ?`,
        priceCents, cartID); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return &AddItemResult{CartID: cartID, MovieID: movieID}, nil
}

// OpenCartLines returns the contents of the client's open cart joined
// with movie titles. An empty slice (not an error) is returned when the
// client has no open cart.
func (r *CartRepo) OpenCartLines(ctx context.Context, clientID uint64) ([]model.CartLine, error) {
    const q = `SELECT cp.pelicula_id, p.titulo, cp.precio_unitario_cents, cp.cantidad
               FROM carrito_peliculas cp
               JOIN carritos c ON c.id = cp.carrito_id
               JOIN peliculas p ON p.id = cp.pelicula_id
               WHERE c.cliente_id = ? AND c.estado = ?
               ORDER BY cp.id`
    rows, err := r.db.QueryContext(ctx, q, clientID, model.CartStatusOpen)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.CartLine, 0)
    for rows.Next() {
        var l model.CartLine
        if err := rows.Scan(&l.MovieID, &l.Title, &l.UnitPriceCents, &l.Quantity); err != nil {
            return nil, err
        }
        l.Price = float64(l.UnitPriceCents) / 100
        out = append(out, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CheckoutResult reports the amounts of a checkout. Empty is true when
// the client had no open cart, in which case nothing was written and
// all amounts are zero.
type CheckoutResult struct {
    CartID          uint64
    TotalCents      int64
    DiscountPercent float64
    ChargedCents    int64
    Items           int
    Empty           bool
}

// Checkout settles the client's open cart in a single transaction. The
// client and cart rows are locked FOR UPDATE so the balance check, the
// OPEN to PAGADO transition and the debit are one atomic unit: two
// concurrent checkouts for the same client serialize on the client row
// and the loser sees either no open cart or the already reduced
// balance.
//
// On success the cart is PAGADO, the balance is reduced by the
// discounted total and one settlement row per cart item is written to
// transacciones with fecha_pago stamped. Per-line amounts carry the
// discount proportionally and sum to exactly the charged total.
// Checkout with no open cart is a no-op success, not a failure.
func (r *CartRepo) Checkout(ctx context.Context, clientID uint64) (*CheckoutResult, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var balanceCents int64
    var discount float64
    err = tx.QueryRowContext(ctx,
        `SELECT saldo_cents, descuento_percent FROM clientes WHERE id = ? FOR UPDATE`,
        clientID).Scan(&balanceCents, &discount)
    if err == sql.ErrNoRows {
        return nil, ErrClientNotFound
    }
    if err != nil {
        return nil, err
    }

    var cartID uint64
    var totalCents int64
    err = tx.QueryRowContext(ctx,
        `SELECT id, total_cents FROM carritos WHERE cliente_id = ? AND estado = ? FOR UPDATE`,
        clientID, model.CartStatusOpen).Scan(&cartID, &totalCents)
    if err == sql.ErrNoRows {
        // Nothing to settle; commit the empty transaction and report a
        // zero-total success.
        if err := tx.Commit(); err != nil {
            return nil, err
        }
        committed = true
        return &CheckoutResult{DiscountPercent: discount, Empty: true}, nil
    }
    if err != nil {
        return nil, err
    }

    chargedCents := DiscountedTotalCents(totalCents, discount)
    if balanceCents < chargedCents {
        return nil, ErrInsufficientFunds
    }

    now := time.Now().UTC()
    if _, err := tx.ExecContext(ctx,
        `UPDATE carritos SET estado = ?, fecha_pago = ? WHERE id = ?`,
        model.CartStatusPaid, now, cartID); err != nil {
        return nil, err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE clientes SET saldo_cents = saldo_cents - ? WHERE id = ?`,
        chargedCents, clientID); err != nil {
        return nil, err
    }
    items, err := settleItemsTx(ctx, tx, cartID, clientID, chargedCents, now)
    if err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return &CheckoutResult{
        CartID:          cartID,
        TotalCents:      totalCents,
        DiscountPercent: discount,
        ChargedCents:    chargedCents,
        Items:           items,
    }, nil
}

// openCartForUpdateTx returns the id of the client's open cart, locked
// FOR UPDATE. When create is true and no open cart exists, one is
// inserted with a zero total; a duplicate-key rejection on insert means
// another transaction created the cart concurrently, so it is selected
// again. Callers never construct cart rows any other way.
func openCartForUpdateTx(ctx context.Context, tx *sql.Tx, clientID uint64, create bool) (uint64, error) {
    const sel = `SELECT id FROM carritos WHERE cliente_id = ? AND estado = ? FOR UPDATE`
    var id uint64
    err := tx.QueryRowContext(ctx, sel, clientID, model.CartStatusOpen).Scan(&id)
    if err == nil {
        return id, nil
    }
    if err != sql.ErrNoRows || !create {
        return 0, err
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO carritos (cliente_id, estado, total_cents) VALUES (?, ?, 0)`,
        clientID, model.CartStatusOpen)
    if err != nil {
        if isMySQLErr(err, erDupEntry) {
            // Lost the race; the winner's cart is the open cart now.
            if err := tx.QueryRowContext(ctx, sel, clientID, model.CartStatusOpen).Scan(&id); err != nil {
                return 0, err
            }
            return id, nil
        }
        return 0, err
    }
    newID, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(newID), nil
}

// settleItemsTx writes one transacciones row per cart item. Line
// amounts are the discounted shares produced by SplitSettlement so the
// audit rows sum to exactly what was debited.
func settleItemsTx(ctx context.Context, tx *sql.Tx, cartID, clientID uint64, chargedCents int64, paidAt time.Time) (int, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT pelicula_id, precio_unitario_cents, cantidad
         FROM carrito_peliculas WHERE carrito_id = ? ORDER BY id FOR UPDATE`, cartID)
    if err != nil {
        return 0, err
    }
    defer rows.Close()
    var movieIDs []uint64
    var lineCents []int64
    for rows.Next() {
        var movieID uint64
        var unit int64
        var qty int
        if err := rows.Scan(&movieID, &unit, &qty); err != nil {
            return 0, err
        }
        movieIDs = append(movieIDs, movieID)
        lineCents = append(lineCents, unit*int64(qty))
    }
    if err := rows.Err(); err != nil {
        return 0, err
    }
    // The cursor must be drained and closed before issuing more
    // statements on the same transaction connection.
    if err := rows.Close(); err != nil {
        return 0, err
    }
    if len(movieIDs) == 0 {
        return 0, nil
    }
    amounts := SplitSettlement(lineCents, chargedCents)
    for i, movieID := range movieIDs {
        if _, err := tx.ExecContext(ctx,
            `INSERT INTO transacciones (cliente_id, pelicula_id, monto_cents, fecha, fecha_pago)
             VALUES (?, ?, ?, ?, ?)`,
            clientID, movieID, amounts[i], paidAt, paidAt); err != nil {
            return 0, err
        }
    }
    return len(movieIDs), nil
}
