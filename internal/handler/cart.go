package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-store/internal/model"
    "github.com/iliyamo/movie-store/internal/queue"
    "github.com/iliyamo/movie-store/internal/repository"
)

// CartStore is the slice of the cart repository the cart endpoints
// need. The repository methods own the transactions; the handler only
// validates input and maps errors to HTTP statuses.
type CartStore interface {
    AddItem(ctx context.Context, clientID, movieID uint64) (*repository.AddItemResult, error)
    OpenCartLines(ctx context.Context, clientID uint64) ([]model.CartLine, error)
    Checkout(ctx context.Context, clientID uint64) (*repository.CheckoutResult, error)
}

// OrderPublisher delivers an OrderPaidEvent to the broker. A nil
// publisher disables eventing; publish failures never affect the HTTP
// response because the checkout has already committed.
type OrderPublisher func(ctx context.Context, event queue.OrderPaidEvent) error

// CartHandler serves the cart and checkout endpoints. The client is
// identified by an explicit client_id in the request, as in the legacy
// API; cart endpoints carry no session state.
type CartHandler struct {
    Carts   CartStore
    publish OrderPublisher
}

// NewCartHandler constructs a CartHandler. publish may be nil to
// disable checkout events.
func NewCartHandler(carts CartStore, publish OrderPublisher) *CartHandler {
    if carts == nil {
        panic("nil cart store passed to NewCartHandler")
    }
    return &CartHandler{Carts: carts, publish: publish}
}

// clientIDReq is the body shape shared by the cart endpoints. The
// legacy API accepts the id as a number or a numeric string, so the
// raw value is kept loose and parsed by clientID().
type clientIDReq struct {
    ClientID any `json:"client_id"`
}

// clientID normalizes the client_id body field. It returns false when
// the field is missing or not a positive integer.
func (r clientIDReq) clientID() (uint64, bool) {
    switch v := r.ClientID.(type) {
    case float64:
        if v <= 0 || v != float64(uint64(v)) {
            return 0, false
        }
        return uint64(v), true
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil || n == 0 {
            return 0, false
        }
        return n, true
    }
    return 0, false
}

// AddToCart handles PUT /cart/:movie_id. It adds one unit of the movie
// to the client's open cart, creating the cart when needed. Duplicate
// adds and exhausted stock are conflicts.
func (h *CartHandler) AddToCart(c echo.Context) error {
    movieID, err := parseID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    var req clientIDReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    clientID, ok := req.clientID()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    res, err := h.Carts.AddItem(ctx, clientID, movieID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrClientNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
        case errors.Is(err, repository.ErrMovieNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        case errors.Is(err, repository.ErrMovieAlreadyInCart):
            return c.JSON(http.StatusConflict, echo.Map{"error": "movie already in cart"})
        case errors.Is(err, repository.ErrOutOfStock):
            return c.JSON(http.StatusConflict, echo.Map{"error": "movie out of stock"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "cartid":  res.CartID,
        "movieid": res.MovieID,
        "message": "Added to cart",
    })
}

// GetCart handles GET /cart?client_id=N. It returns the open cart's
// lines joined with movie data, or an empty list when the client has no
// open cart.
func (h *CartHandler) GetCart(c echo.Context) error {
    raw := c.QueryParam("client_id")
    if raw == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
    }
    clientID, err := strconv.ParseUint(raw, 10, 64)
    if err != nil || clientID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id must be an integer"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    lines, err := h.Carts.OpenCartLines(ctx, clientID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, lines)
}

// Checkout handles POST /cart/checkout. Checking out with no open cart
// is a zero-total success; an uncovered total is a 402. On success the
// response carries the original total, the applied discount and the
// charged amount, and an order.paid event is published best-effort.
func (h *CartHandler) Checkout(c echo.Context) error {
    var req clientIDReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    clientID, ok := req.clientID()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    res, err := h.Carts.Checkout(ctx, clientID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrClientNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
        case errors.Is(err, repository.ErrInsufficientFunds):
            return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "insufficient funds"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
    }
    if res.Empty {
        return c.JSON(http.StatusOK, echo.Map{
            "message": "Cart is empty",
            "total":   0.0,
        })
    }

    if h.publish != nil {
        ev := queue.OrderPaidEvent{
            CartID:          res.CartID,
            ClientID:        clientID,
            TotalCents:      res.TotalCents,
            DiscountPercent: res.DiscountPercent,
            ChargedCents:    res.ChargedCents,
            Items:           res.Items,
            PaidAt:          time.Now().UTC().Format(time.RFC3339),
        }
        if err := h.publish(c.Request().Context(), ev); err != nil {
            log.Printf("checkout: publish order.paid failed: %v", err)
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "message":          "Checkout successful",
        "cartid":           res.CartID,
        "total_original":   float64(res.TotalCents) / 100,
        "discount_percent": res.DiscountPercent,
        "total_charged":    float64(res.ChargedCents) / 100,
    })
}
