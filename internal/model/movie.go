package model

// Movie represents a row in the `peliculas` table. Prices are stored
// in integer cents to avoid floating point drift; handlers convert to
// euros at the JSON boundary.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Description – optional synopsis.
//  Year        – release year.
//  Genre       – optional genre label.
//  PriceCents  – current catalog price in cents.
//  Stock       – remaining units; never allowed to go negative.
type Movie struct {
    ID          uint64  // peliculas.id
    Title       string  // peliculas.titulo
    Description *string // peliculas.descripcion (nullable)
    Year        int     // peliculas.anio
    Genre       *string // peliculas.genero (nullable)
    PriceCents  int64   // peliculas.precio_cents
    Stock       int     // peliculas.stock
}

// Actor represents a row in the `actores` table. Actors are linked to
// movies through the peliculas_actores join table.
type Actor struct {
    ID        uint64 // actores.id
    FirstName string // actores.nombre
    LastName  string // actores.apellido
}
