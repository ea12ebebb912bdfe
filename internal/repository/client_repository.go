package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-store/internal/model"
)

// ClientRepo provides persistence for clients: registration, lookup,
// credit top-ups and deletion. Balance mutations caused by checkout
// live in CartRepo because they must share a transaction with the cart
// state transition.
type ClientRepo struct {
	db *sql.DB
}

// NewClientRepo returns a new ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

// Create inserts a new client with a zero balance and returns its id.
// The unique key on nombre turns a duplicate registration into
// ErrNameExists regardless of concurrent attempts.
func (r *ClientRepo) Create(ctx context.Context, name, email, passwordHash string) (uint64, error) {
	const q = `INSERT INTO clientes (nombre, email, password_hash, saldo_cents)
			   VALUES (?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, q, name, email, passwordHash)
	if err != nil {
		if isMySQLErr(err, erDupEntry) {
			return 0, ErrNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns a client by id, or ErrClientNotFound.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
	const q = `SELECT id, nombre, email, password_hash, saldo_cents, es_admin, pais, descuento_percent
			   FROM clientes WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByName returns a client by its unique name, or ErrClientNotFound.
func (r *ClientRepo) GetByName(ctx context.Context, name string) (*model.Client, error) {
	const q = `SELECT id, nombre, email, password_hash, saldo_cents, es_admin, pais, descuento_percent
			   FROM clientes WHERE nombre = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

// AddCredit atomically increases the client balance and returns the new
// value. The update and the read-back run in one transaction so
// concurrent top-ups cannot report a stale balance.
func (r *ClientRepo) AddCredit(ctx context.Context, clientID uint64, amountCents int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`UPDATE clientes SET saldo_cents = saldo_cents + ? WHERE id = ?`,
		amountCents, clientID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrClientNotFound
	}
	var balance int64
	if err := tx.QueryRowContext(ctx,
		`SELECT saldo_cents FROM clientes WHERE id = ?`, clientID).Scan(&balance); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return balance, nil
}

// Delete removes a client row. It returns ErrClientNotFound when the
// id does not exist and ErrClientHasData when the engine rejects the
// delete because carts, sales or ratings still reference the client.
func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = ?`, id)
	if err != nil {
		if isMySQLErr(err, erRowIsReferenced) {
			return ErrClientHasData
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

// WithoutPurchases returns clients that have no settlement rows at all,
// ordered by id. Used by the /clientesSinPedidos report.
func (r *ClientRepo) WithoutPurchases(ctx context.Context) ([]model.Client, error) {
	const q = `SELECT c.id, c.nombre, c.email, c.password_hash, c.saldo_cents, c.es_admin, c.pais, c.descuento_percent
			   FROM clientes c
			   LEFT JOIN transacciones t ON t.cliente_id = c.id
			   WHERE t.id IS NULL
			   ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Client, 0)
	for rows.Next() {
		var c model.Client
		var country sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.BalanceCents,
			&c.IsAdmin, &country, &c.DiscountPercent); err != nil {
			return nil, err
		}
		if country.Valid {
			p := country.String
			c.Country = &p
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ClientRepo) scanOne(row *sql.Row) (*model.Client, error) {
	var c model.Client
	var country sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.BalanceCents,
		&c.IsAdmin, &country, &c.DiscountPercent)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	if country.Valid {
		p := country.String
		c.Country = &p
	}
	return &c, nil
}
