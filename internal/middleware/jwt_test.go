package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/movie-store/internal/utils"
)

func protectedEcho(secret string, extra ...echo.MiddlewareFunc) *echo.Echo {
    e := echo.New()
    mws := append([]echo.MiddlewareFunc{JWTAuth(secret)}, extra...)
    e.GET("/secure", func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{
            "user_id": c.Get("user_id"),
            "role":    c.Get("role"),
        })
    }, mws...)
    return e
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
    e := protectedEcho("secret")
    req := httptest.NewRequest(http.MethodGet, "/secure", nil)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
    e := protectedEcho("secret")
    req := httptest.NewRequest(http.MethodGet, "/secure", nil)
    req.Header.Set("Authorization", "Bearer not.a.token")
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
    access, err := utils.NewAccessToken("other-secret", 7, "CLIENT", 15)
    require.NoError(t, err)

    e := protectedEcho("secret")
    req := httptest.NewRequest(http.MethodGet, "/secure", nil)
    req.Header.Set("Authorization", "Bearer "+access.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
    access, err := utils.NewAccessToken("secret", 7, "CLIENT", 15)
    require.NoError(t, err)

    e := protectedEcho("secret")
    req := httptest.NewRequest(http.MethodGet, "/secure", nil)
    req.Header.Set("Authorization", "Bearer "+access.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"role":"CLIENT"`)
}

func TestRequireRoleBlocksWrongRole(t *testing.T) {
    access, err := utils.NewAccessToken("secret", 7, "CLIENT", 15)
    require.NoError(t, err)

    e := protectedEcho("secret", RequireRole("ADMIN"))
    req := httptest.NewRequest(http.MethodGet, "/secure", nil)
    req.Header.Set("Authorization", "Bearer "+access.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
    access, err := utils.NewAccessToken("secret", 7, "ADMIN", 15)
    require.NoError(t, err)

    e := protectedEcho("secret", RequireRole("ADMIN"))
    req := httptest.NewRequest(http.MethodGet, "/secure", nil)
    req.Header.Set("Authorization", "Bearer "+access.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}
