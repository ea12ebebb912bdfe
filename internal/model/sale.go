package model

import "time"

// Sale represents a row in the `transacciones` table. Sales are
// append-only audit records written when a cart is paid: one row per
// cart item, with the discounted line amount. They are never mutated
// after creation.
//
// Fields:
//  ID          – primary key identifier.
//  ClientID    – paying client.
//  MovieID     – purchased movie.
//  AmountCents – discounted amount charged for this line.
//  CreatedAt   – when the row was written.
//  PaidAt      – payment timestamp (same instant as CreatedAt here;
//                nullable for rows imported from the legacy system).
type Sale struct {
    ID          uint64     // transacciones.id
    ClientID    uint64     // transacciones.cliente_id
    MovieID     uint64     // transacciones.pelicula_id
    AmountCents int64      // transacciones.monto_cents
    CreatedAt   time.Time  // transacciones.fecha
    PaidAt      *time.Time // transacciones.fecha_pago (nullable)
}

// Rating represents a row in the `valoraciones` table. The store does
// not expose rating endpoints; the table is kept because the country
// purge workflows must clear it.
type Rating struct {
    ClientID uint64  // valoraciones.cliente_id
    MovieID  uint64  // valoraciones.pelicula_id
    Score    int     // valoraciones.puntuacion
    Comment  *string // valoraciones.comentario (nullable)
}
