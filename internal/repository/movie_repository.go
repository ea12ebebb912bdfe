package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-store/internal/model"
)

// MovieRepo provides read access to the movie catalog. Filtering is
// plain substring/equality matching pushed down to SQL; there is no
// full-text search.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// MovieFilter carries the optional catalog filters. A nil Year means
// no year filter; empty strings mean no title/genre filter.
type MovieFilter struct {
	Title string
	Genre string
	Year  *int
}

// Search returns catalog rows matching the filter, ordered by id for
// deterministic output. Title and genre match case-insensitively as
// substrings.
func (r *MovieRepo) Search(ctx context.Context, f MovieFilter) ([]model.Movie, error) {
	where := []string{}
	args := []any{}
	if f.Title != "" {
		where = append(where, "LOWER(titulo) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if f.Genre != "" {
		where = append(where, "LOWER(genero) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Genre)+"%")
	}
	if f.Year != nil {
		where = append(where, "anio = ?")
		args = append(args, *f.Year)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT id, titulo, descripcion, anio, genero, precio_cents, stock
		  FROM peliculas
		  WHERE ` + cond + `
		  ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single movie. It returns ErrMovieNotFound when the
// id does not exist.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, titulo, descripcion, anio, genero, precio_cents, stock
			   FROM peliculas WHERE id = ?`
	var m model.Movie
	var desc, genre sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &desc, &m.Year, &genre, &m.PriceCents, &m.Stock,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	if genre.Valid {
		g := genre.String
		m.Genre = &g
	}
	return &m, nil
}

// scanMovie reads one catalog row from a *sql.Rows cursor.
func scanMovie(rows *sql.Rows) (model.Movie, error) {
	var m model.Movie
	var desc, genre sql.NullString
	if err := rows.Scan(&m.ID, &m.Title, &desc, &m.Year, &genre, &m.PriceCents, &m.Stock); err != nil {
		return model.Movie{}, err
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	if genre.Valid {
		g := genre.String
		m.Genre = &g
	}
	return m, nil
}
