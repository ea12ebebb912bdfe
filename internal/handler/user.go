package handler

import (
    "context"
    "errors"
    "math"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-store/internal/config"
    "github.com/iliyamo/movie-store/internal/model"
    "github.com/iliyamo/movie-store/internal/repository"
    "github.com/iliyamo/movie-store/internal/utils"
)

// ClientStore is the slice of the client repository the user endpoints
// need.
type ClientStore interface {
    Create(ctx context.Context, name, email, passwordHash string) (uint64, error)
    GetByID(ctx context.Context, id uint64) (*model.Client, error)
    GetByName(ctx context.Context, name string) (*model.Client, error)
    AddCredit(ctx context.Context, clientID uint64, amountCents int64) (int64, error)
    Delete(ctx context.Context, id uint64) error
}

// UserHandler serves registration, login, credit top-ups and the
// admin-only client deletion.
type UserHandler struct {
    Cfg     config.Config
    Clients ClientStore
}

// NewUserHandler constructs a UserHandler and panics if the client
// store is nil.
func NewUserHandler(cfg config.Config, clients ClientStore) *UserHandler {
    if clients == nil {
        panic("nil client store passed to NewUserHandler")
    }
    return &UserHandler{Cfg: cfg, Clients: clients}
}

// ----- DTOs -----

type registerReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
}
type loginReq struct {
    Name     string `json:"name"`
    Password string `json:"password"`
}
type creditReq struct {
    ClientID any     `json:"client_id"`
    Amount   float64 `json:"amount"`
}

// Register handles PUT /user. The client name is unique; registering an
// existing name is a conflict. Passwords are stored as bcrypt hashes.
func (h *UserHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/password required"})
    }
    if req.Email == "" {
        req.Email = req.Name + "@example.com"
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    uid, err := h.Clients.Create(ctx, req.Name, req.Email, hash)
    if err != nil {
        if errors.Is(err, repository.ErrNameExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "uid":      uid,
        "username": req.Name,
    })
}

// Login handles POST /user. An unknown name is 404 and a wrong password
// 403, matching the legacy API. On success the response carries a
// signed access token identifying the client and its role.
func (h *UserHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    u, err := h.Clients.GetByName(ctx, req.Name)
    if err != nil {
        if errors.Is(err, repository.ErrClientNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid credentials"})
    }

    role := "CLIENT"
    if u.IsAdmin {
        role = "ADMIN"
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "uid":     u.ID,
        "name":    u.Name,
        "email":   u.Email,
        "token":   access.Token,
        "expires": access.Exp,
    })
}

// Me is a simple protected endpoint echoing the JWT identity.
func (h *UserHandler) Me(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "user_id": c.Get("user_id"),
        "role":    c.Get("role"),
    })
}

// AddCredit handles POST /user/credit. The amount is euros in the
// request and must be strictly positive; it is converted to cents
// before touching the balance.
func (h *UserHandler) AddCredit(c echo.Context) error {
    var req creditReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    clientID, ok := clientIDReq{ClientID: req.ClientID}.clientID()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id is required"})
    }
    if req.Amount <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a positive number"})
    }
    amountCents := int64(math.Round(req.Amount * 100))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    balance, err := h.Clients.AddCredit(ctx, clientID, amountCents)
    if err != nil {
        if errors.Is(err, repository.ErrClientNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add credit failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":    "Credit added",
        "new_credit": float64(balance) / 100,
    })
}

// Delete handles DELETE /user/:id. The route is gated by the JWT and
// ADMIN role middleware; deleting a client that still owns data is a
// conflict, the country purge endpoints exist for that.
func (h *UserHandler) Delete(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    if err := h.Clients.Delete(ctx, id); err != nil {
        switch {
        case errors.Is(err, repository.ErrClientNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrClientHasData):
            return c.JSON(http.StatusConflict, echo.Map{"error": "user still has carts or purchases"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
