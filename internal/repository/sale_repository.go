package repository

import (
    "context"
    "database/sql"
    "time"
)

// SaleRepo provides read access to the settlement log for the admin
// reports. Settlement rows are written by CartRepo.Checkout; this
// repository never mutates them.
type SaleRepo struct {
    db *sql.DB
}

// NewSaleRepo returns a new SaleRepo bound to the given database.
func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

// SaleReportRow is one line of the /estadisticaVentas report: a
// settlement row joined with its client.
type SaleReportRow struct {
    SaleID      uint64    `json:"transaccion_id"`
    ClientID    uint64    `json:"cliente_id"`
    ClientName  string    `json:"cliente_nombre"`
    Country     string    `json:"cliente_pais"`
    MovieID     uint64    `json:"pelicula_id"`
    AmountCents int64     `json:"-"`
    Amount      float64   `json:"monto"`
    Date        time.Time `json:"fecha"`
}

// SalesByYearAndCountry returns all settlement rows for clients of the
// given country within the given year, ordered by date.
func (r *SaleRepo) SalesByYearAndCountry(ctx context.Context, year int, country string) ([]SaleReportRow, error) {
    const q = `SELECT t.id, t.cliente_id, c.nombre, c.pais, t.pelicula_id, t.monto_cents, t.fecha
               FROM transacciones t
               JOIN clientes c ON c.id = t.cliente_id
               WHERE YEAR(t.fecha) = ? AND c.pais = ?
               ORDER BY t.fecha`
    rows, err := r.db.QueryContext(ctx, q, year, country)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]SaleReportRow, 0)
    for rows.Next() {
        var row SaleReportRow
        if err := rows.Scan(&row.SaleID, &row.ClientID, &row.ClientName, &row.Country,
            &row.MovieID, &row.AmountCents, &row.Date); err != nil {
            return nil, err
        }
        row.Amount = float64(row.AmountCents) / 100
        out = append(out, row)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
