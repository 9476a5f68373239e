package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/identityadmin/admin-service/internal/core/domain"
)

// Echo context keys populated by Principal.
const (
	KeyEmail     = "email"
	KeyUsername  = "username"
	KeyRoles     = "roles"
	KeyPrincipal = "principal"
)

// Claims is the token payload issued by the identity provider. Login and
// token issuance live there; this service only verifies and reads them.
type Claims struct {
	Email    string   `json:"email,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Identifier is the principal the core resolves users by: the email when
// present, otherwise the username, otherwise the subject.
func (c *Claims) Identifier() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.Username != "":
		return c.Username
	default:
		return c.Subject
	}
}

// Principal validates the HS256 bearer token, injects its claims into the
// echo context and records the identifier as the acting principal on the
// request context.
func Principal(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := &Claims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			id := claims.Identifier()
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing principal")
			}

			roles := make([]string, 0, len(claims.Roles))
			for _, r := range claims.Roles {
				roles = append(roles, strings.ToUpper(strings.TrimSpace(r)))
			}

			c.Set(KeyEmail, claims.Email)
			c.Set(KeyUsername, claims.Username)
			c.Set(KeyRoles, roles)
			c.Set(KeyPrincipal, id)
			c.SetRequest(c.Request().WithContext(domain.WithActor(c.Request().Context(), id)))

			return next(c)
		}
	}
}
