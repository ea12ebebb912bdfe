package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-store/internal/handler"
	"github.com/iliyamo/movie-store/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the public catalog endpoints. The optional
// cache middleware (nil-safe) is applied to both so repeated browses
// are served from Redis.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/movies", m.List, mws...)
	e.GET("/movies/:id", m.Get, mws...)
}

// RegisterCart registers the cart and checkout endpoints. The legacy
// API identifies the client by an explicit client_id in the request, so
// none of these routes require a token.
func RegisterCart(e *echo.Echo, h *handler.CartHandler) {
	e.PUT("/cart/:movie_id", h.AddToCart)
	e.GET("/cart", h.GetCart)
	e.POST("/cart/checkout", h.Checkout)
}

// RegisterUser registers registration, login and credit endpoints, plus
// the token-protected identity echo and the admin-only client deletion.
func RegisterUser(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	e.PUT("/user", u.Register)
	e.POST("/user", u.Login)
	e.POST("/user/credit", u.AddCredit)

	// Protected routes. Deleting a client is reserved for admins; the
	// role claim comes from the clientes.es_admin flag at login.
	e.GET("/user/me", u.Me, middleware.JWTAuth(jwtSecret))
	e.DELETE("/user/:id", u.Delete,
		middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
}

// RegisterAdmin registers the reporting and country purge endpoints.
// The purge endpoints keep the legacy route names and their documented
// transactional behavior, including the intentionally broken variants.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	e.GET("/estadisticaVentas/:year/:country", a.SalesStats)
	e.GET("/clientesSinPedidos", a.ClientsWithoutPurchases)
	e.POST("/borraPais/:country", a.PurgeCountry)
	e.POST("/borraPaisIncorrecto/:country", a.PurgeCountryIncorrect)
	e.POST("/borraPaisIntermedio/:country", a.PurgeCountryPartial)
}
