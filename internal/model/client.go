package model

// Client represents a row in the `clientes` table. The balance is held
// in integer cents and is only ever mutated by the credit top-up
// endpoint and the checkout settlement.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – unique display name used for login.
//  Email           – contact address.
//  PasswordHash    – bcrypt hashed password.
//  BalanceCents    – prepaid balance in cents.
//  IsAdmin         – whether the client may call admin endpoints.
//  Country         – country used by reporting and purge endpoints.
//  DiscountPercent – personal discount in [0,100], two decimals.
type Client struct {
    ID              uint64  // clientes.id
    Name            string  // clientes.nombre
    Email           string  // clientes.email
    PasswordHash    string  // clientes.password_hash
    BalanceCents    int64   // clientes.saldo_cents
    IsAdmin         bool    // clientes.es_admin
    Country         *string // clientes.pais (nullable)
    DiscountPercent float64 // clientes.descuento_percent
}
