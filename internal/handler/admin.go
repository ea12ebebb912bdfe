package handler

import (
    "context"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-store/internal/model"
    "github.com/iliyamo/movie-store/internal/repository"
)

// SaleReports is the reporting slice of the sale repository.
type SaleReports interface {
    SalesByYearAndCountry(ctx context.Context, year int, country string) ([]repository.SaleReportRow, error)
}

// ClientReports is the reporting slice of the client repository.
type ClientReports interface {
    WithoutPurchases(ctx context.Context) ([]model.Client, error)
}

// CountryPurger exposes the three country purge variants. The variants
// deliberately differ in transactional behavior; see the repository for
// why the broken ones must stay broken.
type CountryPurger interface {
    DeleteCountryOrdered(ctx context.Context, country string) error
    DeleteCountryClientsFirst(ctx context.Context, country string) error
    DeleteCountryTwoPhase(ctx context.Context, country string) (*repository.TwoPhaseOutcome, error)
}

// AdminHandler serves the reporting and country purge endpoints.
type AdminHandler struct {
    Sales   SaleReports
    Clients ClientReports
    Purge   CountryPurger
}

// NewAdminHandler constructs an AdminHandler and panics on nil
// dependencies.
func NewAdminHandler(sales SaleReports, clients ClientReports, purge CountryPurger) *AdminHandler {
    if sales == nil || clients == nil || purge == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Sales: sales, Clients: clients, Purge: purge}
}

// SalesStats handles GET /estadisticaVentas/:year/:country.
func (h *AdminHandler) SalesStats(c echo.Context) error {
    year, err := strconv.Atoi(c.Param("year"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
    }
    country := strings.TrimSpace(c.Param("country"))
    if country == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "country is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    rows, err := h.Sales.SalesByYearAndCountry(ctx, year, country)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, rows)
}

// clientReportRow is the JSON shape of a /clientesSinPedidos entry.
// Password hashes and discount data stay out of the report.
type clientReportRow struct {
    ID      uint64  `json:"id"`
    Name    string  `json:"nombre"`
    Email   string  `json:"email"`
    Country *string `json:"pais"`
    Balance float64 `json:"saldo"`
}

// ClientsWithoutPurchases handles GET /clientesSinPedidos.
func (h *AdminHandler) ClientsWithoutPurchases(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    clients, err := h.Clients.WithoutPurchases(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]clientReportRow, 0, len(clients))
    for _, cl := range clients {
        out = append(out, clientReportRow{
            ID:      cl.ID,
            Name:    cl.Name,
            Email:   cl.Email,
            Country: cl.Country,
            Balance: float64(cl.BalanceCents) / 100,
        })
    }
    return c.JSON(http.StatusOK, out)
}

// PurgeCountry handles POST /borraPais/:country, the fully atomic
// variant. Any failure rolls everything back and surfaces the cause.
func (h *AdminHandler) PurgeCountry(c echo.Context) error {
    country := strings.TrimSpace(c.Param("country"))
    if country == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "country is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    if err := h.Purge.DeleteCountryOrdered(ctx, country); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error": fmt.Sprintf("borraPais failed: %v", err),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok", "pais": country})
}

// PurgeCountryIncorrect handles POST /borraPaisIncorrecto/:country. It
// deletes clientes first on purpose; with any dependent rows present
// the engine rejects the delete, the transaction rolls back untouched
// and the response is a 500 carrying the foreign key cause. The 200
// branch is only reachable when the country has no data at all.
func (h *AdminHandler) PurgeCountryIncorrect(c echo.Context) error {
    country := strings.TrimSpace(c.Param("country"))
    if country == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "country is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    if err := h.Purge.DeleteCountryClientsFirst(ctx, country); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error": fmt.Sprintf("borraPaisIncorrecto failed (rollback applied): %v", err),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok", "pais": country})
}

// PurgeCountryPartial handles POST /borraPaisIntermedio/:country. The
// first phase commits on its own; whatever happens to the second phase
// is reported inside a 200 body with status "intermedio". This endpoint
// intentionally never surfaces a phase-two failure as an error status,
// unlike the other two variants; only a phase-one failure is a 500.
func (h *AdminHandler) PurgeCountryPartial(c echo.Context) error {
    country := strings.TrimSpace(c.Param("country"))
    if country == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "country is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    outcome, err := h.Purge.DeleteCountryTwoPhase(ctx, country)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error": fmt.Sprintf("borraPaisIntermedio phase 1 failed: %v", err),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "intermedio",
        "pais":    country,
        "detalle": outcome.Detail,
    })
}
