package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-store/internal/model"
    "github.com/iliyamo/movie-store/internal/repository"
)

// Catalog is the slice of the movie repository the catalog endpoints
// need. Declared here so tests can substitute a fake.
type Catalog interface {
    Search(ctx context.Context, f repository.MovieFilter) ([]model.Movie, error)
    GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// MovieHandler serves the public catalog endpoints.
type MovieHandler struct {
    Movies Catalog
}

// NewMovieHandler constructs a MovieHandler and panics if the catalog
// dependency is nil.
func NewMovieHandler(movies Catalog) *MovieHandler {
    if movies == nil {
        panic("nil catalog passed to NewMovieHandler")
    }
    return &MovieHandler{Movies: movies}
}

// movieResp is the JSON shape of a catalog entry. Prices cross the wire
// in euros.
type movieResp struct {
    MovieID     uint64  `json:"movieid"`
    Title       string  `json:"title"`
    Description *string `json:"description"`
    Year        int     `json:"year"`
    Genre       *string `json:"genre"`
    Price       float64 `json:"price"`
    Stock       int     `json:"stock"`
}

func toMovieResp(m model.Movie) movieResp {
    return movieResp{
        MovieID:     m.ID,
        Title:       m.Title,
        Description: m.Description,
        Year:        m.Year,
        Genre:       m.Genre,
        Price:       float64(m.PriceCents) / 100,
        Stock:       m.Stock,
    }
}

// List handles GET /movies. Optional query parameters title, genre and
// year narrow the result; a non-numeric year is a 400.
func (h *MovieHandler) List(c echo.Context) error {
    f := repository.MovieFilter{
        Title: c.QueryParam("title"),
        Genre: c.QueryParam("genre"),
    }
    if y := c.QueryParam("year"); y != "" {
        n, err := strconv.Atoi(y)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
        }
        f.Year = &n
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    movies, err := h.Movies.Search(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]movieResp, 0, len(movies))
    for _, m := range movies {
        out = append(out, toMovieResp(m))
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toMovieResp(*m))
}
