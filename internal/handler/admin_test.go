package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/movie-store/internal/model"
    "github.com/iliyamo/movie-store/internal/repository"
)

type saleReportsMock struct {
    byYearCountry func(ctx context.Context, year int, country string) ([]repository.SaleReportRow, error)
}

func (m *saleReportsMock) SalesByYearAndCountry(ctx context.Context, year int, country string) ([]repository.SaleReportRow, error) {
    return m.byYearCountry(ctx, year, country)
}

type clientReportsMock struct {
    without func(ctx context.Context) ([]model.Client, error)
}

func (m *clientReportsMock) WithoutPurchases(ctx context.Context) ([]model.Client, error) {
    return m.without(ctx)
}

type purgerMock struct {
    ordered      func(ctx context.Context, country string) error
    clientsFirst func(ctx context.Context, country string) error
    twoPhase     func(ctx context.Context, country string) (*repository.TwoPhaseOutcome, error)
}

func (m *purgerMock) DeleteCountryOrdered(ctx context.Context, country string) error {
    return m.ordered(ctx, country)
}
func (m *purgerMock) DeleteCountryClientsFirst(ctx context.Context, country string) error {
    return m.clientsFirst(ctx, country)
}
func (m *purgerMock) DeleteCountryTwoPhase(ctx context.Context, country string) (*repository.TwoPhaseOutcome, error) {
    return m.twoPhase(ctx, country)
}

func newAdminHandler(sales *saleReportsMock, clients *clientReportsMock, purge *purgerMock) *AdminHandler {
    if sales == nil {
        sales = &saleReportsMock{}
    }
    if clients == nil {
        clients = &clientReportsMock{}
    }
    if purge == nil {
        purge = &purgerMock{}
    }
    return NewAdminHandler(sales, clients, purge)
}

func TestSalesStatsRejectsBadYear(t *testing.T) {
    h := newAdminHandler(nil, nil, nil)

    c, rec := newCartCtx(t, http.MethodGet, "/estadisticaVentas/abc/ES", "")
    c.SetParamNames("year", "country")
    c.SetParamValues("abc", "ES")

    require.NoError(t, h.SalesStats(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalesStatsReturnsRows(t *testing.T) {
    when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
    sales := &saleReportsMock{
        byYearCountry: func(_ context.Context, year int, country string) ([]repository.SaleReportRow, error) {
            assert.Equal(t, 2024, year)
            assert.Equal(t, "ES", country)
            return []repository.SaleReportRow{
                {SaleID: 1, ClientID: 7, ClientName: "alice", Country: "ES", MovieID: 3, Amount: 19.99, Date: when},
            }, nil
        },
    }
    h := newAdminHandler(sales, nil, nil)

    c, rec := newCartCtx(t, http.MethodGet, "/estadisticaVentas/2024/ES", "")
    c.SetParamNames("year", "country")
    c.SetParamValues("2024", "ES")

    require.NoError(t, h.SalesStats(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var rows []map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
    require.Len(t, rows, 1)
    assert.Equal(t, "alice", rows[0]["cliente_nombre"])
    assert.Equal(t, 19.99, rows[0]["monto"])
}

func TestClientsWithoutPurchasesHidesSensitiveFields(t *testing.T) {
    country := "ES"
    clients := &clientReportsMock{
        without: func(context.Context) ([]model.Client, error) {
            return []model.Client{{
                ID:           7,
                Name:         "alice",
                Email:        "a@x.com",
                PasswordHash: "$2a$10$secret",
                BalanceCents: 1050,
                Country:      &country,
            }}, nil
        },
    }
    h := newAdminHandler(nil, clients, nil)

    c, rec := newCartCtx(t, http.MethodGet, "/clientesSinPedidos", "")
    require.NoError(t, h.ClientsWithoutPurchases(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var rows []map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
    require.Len(t, rows, 1)
    assert.Equal(t, "alice", rows[0]["nombre"])
    assert.Equal(t, 10.5, rows[0]["saldo"])
    assert.NotContains(t, rows[0], "PasswordHash")
    assert.NotContains(t, rows[0], "password_hash")
}

func TestPurgeCountrySuccess(t *testing.T) {
    purge := &purgerMock{
        ordered: func(_ context.Context, country string) error {
            assert.Equal(t, "ES", country)
            return nil
        },
    }
    h := newAdminHandler(nil, nil, purge)

    c, rec := newCartCtx(t, http.MethodPost, "/borraPais/ES", "")
    c.SetParamNames("country")
    c.SetParamValues("ES")

    require.NoError(t, h.PurgeCountry(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, "ok", body["status"])
    assert.Equal(t, "ES", body["pais"])
}

func TestPurgeCountryFailureSurfacesCause(t *testing.T) {
    purge := &purgerMock{
        ordered: func(context.Context, string) error {
            return errors.New("delete carritos: deadlock found")
        },
    }
    h := newAdminHandler(nil, nil, purge)

    c, rec := newCartCtx(t, http.MethodPost, "/borraPais/ES", "")
    c.SetParamNames("country")
    c.SetParamValues("ES")

    require.NoError(t, h.PurgeCountry(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    body := decodeBody(t, rec)
    assert.Contains(t, body["error"], "deadlock found")
}

func TestPurgeCountryIncorrectReportsFKFailure(t *testing.T) {
    purge := &purgerMock{
        clientsFirst: func(context.Context, string) error {
            return errors.New("delete clientes: Cannot delete or update a parent row")
        },
    }
    h := newAdminHandler(nil, nil, purge)

    c, rec := newCartCtx(t, http.MethodPost, "/borraPaisIncorrecto/ES", "")
    c.SetParamNames("country")
    c.SetParamValues("ES")

    require.NoError(t, h.PurgeCountryIncorrect(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    body := decodeBody(t, rec)
    assert.Contains(t, body["error"], "parent row")
    assert.Contains(t, body["error"], "rollback applied")
}

func TestPurgeCountryPartialAlwaysOKWhenPhaseOneCommits(t *testing.T) {
    cases := []struct {
        name    string
        outcome *repository.TwoPhaseOutcome
    }{
        {"phase two rolled back", &repository.TwoPhaseOutcome{
            RolledBack: true,
            Detail:     "clientes delete rolled back, earlier deletes kept",
        }},
        {"phase two succeeded", &repository.TwoPhaseOutcome{
            Detail: "no error, all rows deleted",
        }},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            purge := &purgerMock{
                twoPhase: func(context.Context, string) (*repository.TwoPhaseOutcome, error) {
                    return tc.outcome, nil
                },
            }
            h := newAdminHandler(nil, nil, purge)

            c, rec := newCartCtx(t, http.MethodPost, "/borraPaisIntermedio/ES", "")
            c.SetParamNames("country")
            c.SetParamValues("ES")

            require.NoError(t, h.PurgeCountryPartial(c))
            assert.Equal(t, http.StatusOK, rec.Code)
            body := decodeBody(t, rec)
            assert.Equal(t, "intermedio", body["status"])
            assert.Equal(t, tc.outcome.Detail, body["detalle"])
        })
    }
}

func TestPurgeCountryPartialPhaseOneFailure(t *testing.T) {
    purge := &purgerMock{
        twoPhase: func(context.Context, string) (*repository.TwoPhaseOutcome, error) {
            return nil, errors.New("delete carritos: lock wait timeout")
        },
    }
    h := newAdminHandler(nil, nil, purge)

    c, rec := newCartCtx(t, http.MethodPost, "/borraPaisIntermedio/ES", "")
    c.SetParamNames("country")
    c.SetParamValues("ES")

    require.NoError(t, h.PurgeCountryPartial(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPurgeEndpointsRequireCountry(t *testing.T) {
    h := newAdminHandler(nil, nil, nil)

    c, rec := newCartCtx(t, http.MethodPost, "/borraPais/", "")
    c.SetParamNames("country")
    c.SetParamValues("  ")
    require.NoError(t, h.PurgeCountry(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = newCartCtx(t, http.MethodPost, "/borraPaisIncorrecto/", "")
    c.SetParamNames("country")
    c.SetParamValues("")
    require.NoError(t, h.PurgeCountryIncorrect(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = newCartCtx(t, http.MethodPost, "/borraPaisIntermedio/", "")
    c.SetParamNames("country")
    c.SetParamValues("")
    require.NoError(t, h.PurgeCountryPartial(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
