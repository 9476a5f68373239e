package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/api/handler"
	"github.com/identityadmin/admin-service/internal/api/middleware"
	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

// Services groups the core services the routes delegate to.
type Services struct {
	Users     ports.UserService
	Persons   ports.PersonService
	Addresses ports.AddressService
}

type Config struct {
	JWTSecret string
	Logger    zerolog.Logger
	// Registerer receives the HTTP request metrics. Nil selects the default
	// registry, which /metrics serves.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every /api/v1 route needs a valid principal token; user administration
// and all writes additionally need the ADMIN role.
func NewRouter(svc Services, cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "admin",
		Registerer: reg,
	}))

	e.GET("/metrics", echoprometheus.NewHandler())

	users := handler.NewUserHandler(svc.Users)
	persons := handler.NewPersonHandler(svc.Persons)
	addresses := handler.NewAddressHandler(svc.Addresses)

	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleClient)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/api/v1", middleware.Principal(cfg.JWTSecret))

	// --- Current principal ---
	v1.GET("/authentications/user-auth", users.Me, anyRole)
	v1.POST("/users/password", users.ChangePassword, anyRole)

	// --- Users ---
	u := v1.Group("/users", adminOnly)
	u.POST("/pageable", users.Pageable)
	u.GET("/roles", users.Roles)
	u.GET("/name/:name", users.FindByName)
	u.GET("/:id", users.Get)
	u.POST("", users.Create)
	u.PUT("/:id", users.Edit)
	u.DELETE("/:id", users.Delete)

	// --- People ---
	p := v1.Group("/people")
	p.GET("", persons.List, anyRole)
	p.POST("/pageable", persons.Pageable, anyRole)
	p.POST("/name", persons.FindByName, anyRole)
	p.GET("/:id", persons.Get, anyRole)
	p.POST("", persons.Create, adminOnly)
	p.PUT("/:id", persons.Update, adminOnly)
	p.DELETE("/:id", persons.Delete, adminOnly)

	// --- Addresses and reference data ---
	a := v1.Group("/addresses")
	a.GET("/logradouros", addresses.Logradouros, anyRole)
	a.GET("/countries", addresses.Countries, anyRole)
	a.GET("/countries/:country/states", addresses.States, anyRole)
	a.GET("/countries/:country/states/:state/cities", addresses.Cities, anyRole)
	a.GET("/name/:name", addresses.FindByName, anyRole)
	a.GET("/:id", addresses.Get, anyRole)
	a.POST("", addresses.Create, adminOnly)
	a.PUT("/:id", addresses.Edit, adminOnly)
	a.DELETE("/:id", addresses.Delete, adminOnly)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
