package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identityadmin/admin-service/internal/api/middleware"
)

// principal extracts the identifier injected by the Principal middleware.
// Presence proves the middleware ran.
func principal(c echo.Context) (string, error) {
	if id, _ := c.Get(middleware.KeyPrincipal).(string); id != "" {
		return id, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
}

// bind decodes the request, reporting malformed payloads as 400.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

type deletedResponse struct {
	Deleted bool `json:"deleted"`
}
