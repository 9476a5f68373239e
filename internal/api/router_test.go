package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/api/middleware"
	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
	"github.com/identityadmin/admin-service/internal/core/query"
)

const testSecret = "router-secret"

// fakeUsers answers every call with canned data and records the last
// principal it was asked about.
type fakeUsers struct {
	principal string
}

func (f *fakeUsers) FindPageable(context.Context, ports.UserQuery) (query.Page[ports.UserDTO], error) {
	return query.NewPage[ports.UserDTO](nil, 0, query.PageRequest{Page: 1, Size: 20}), nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*ports.UserDTO, error) {
	return &ports.UserDTO{ID: id, Username: "abc"}, nil
}

func (f *fakeUsers) FindByName(context.Context, string) ([]ports.UserDTO, error) {
	return []ports.UserDTO{}, nil
}

func (f *fakeUsers) Create(_ context.Context, in ports.UserDTO) (*ports.UserDTO, error) {
	in.ID, in.Password = "u-1", ""
	return &in, nil
}

func (f *fakeUsers) Edit(_ context.Context, id string, in ports.UserDTO) (*ports.UserDTO, error) {
	in.ID = id
	return &in, nil
}

func (f *fakeUsers) Delete(context.Context, string) error { return nil }

func (f *fakeUsers) ListRoles(context.Context) ([]ports.RoleDTO, error) {
	return []ports.RoleDTO{{ID: "r-1", Name: domain.RoleClient}}, nil
}

func (f *fakeUsers) ChangePassword(ctx context.Context, principal string, _ ports.UpdatePassword) error {
	f.principal = principal
	return nil
}

func (f *fakeUsers) Me(ctx context.Context, principal string) (*ports.UserDTO, error) {
	f.principal = principal
	return &ports.UserDTO{ID: "u-1", Username: principal, CreatedBy: domain.ActorFromContext(ctx)}, nil
}

type fakePersons struct{ ports.PersonService }

func (fakePersons) FindAll(context.Context) ([]ports.PersonDTO, error) {
	return []ports.PersonDTO{}, nil
}

func (fakePersons) Create(_ context.Context, in ports.PersonDTO) (*ports.PersonDTO, error) {
	in.ID = "p-1"
	return &in, nil
}

type fakeAddresses struct{ ports.AddressService }

func (fakeAddresses) Countries(context.Context) ([]ports.CountryDTO, error) {
	return []ports.CountryDTO{{ID: "BR", Name: "Brasil"}}, nil
}

func newTestRouter(users *fakeUsers) *echo.Echo {
	return NewRouter(Services{
		Users:     users,
		Persons:   fakePersons{},
		Addresses: fakeAddresses{},
	}, Config{
		JWTSecret:  testSecret,
		Logger:     zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, claims middleware.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func do(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Access(t *testing.T) {
	e := newTestRouter(&fakeUsers{})
	admin := bearer(t, middleware.Claims{Username: "root", Roles: []string{domain.RoleAdmin}})
	client := bearer(t, middleware.Claims{Email: "ana@example.com", Roles: []string{domain.RoleClient}})

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		body   string
		code   int
	}{
		{"no token", http.MethodGet, "/api/v1/users/u-1", "", "", http.StatusUnauthorized},
		{"client reads user", http.MethodGet, "/api/v1/users/u-1", client, "", http.StatusForbidden},
		{"admin reads user", http.MethodGet, "/api/v1/users/u-1", admin, "", http.StatusOK},
		{"admin lists roles", http.MethodGet, "/api/v1/users/roles", admin, "", http.StatusOK},
		{"admin creates user", http.MethodPost, "/api/v1/users", admin, `{"username":"abc","password":"pw1"}`, http.StatusCreated},
		{"client changes own password", http.MethodPost, "/api/v1/users/password", client, `{"currentPassword":"a","newPassword":"b"}`, http.StatusNoContent},
		{"client current user", http.MethodGet, "/api/v1/authentications/user-auth", client, "", http.StatusOK},
		{"client lists people", http.MethodGet, "/api/v1/people", client, "", http.StatusOK},
		{"client creates person", http.MethodPost, "/api/v1/people", client, `{"firstName":"Ana"}`, http.StatusForbidden},
		{"admin creates person", http.MethodPost, "/api/v1/people", admin, `{"firstName":"Ana"}`, http.StatusCreated},
		{"client lists countries", http.MethodGet, "/api/v1/addresses/countries", client, "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v2/users", admin, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.auth, tt.body)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_PrincipalReachesService(t *testing.T) {
	users := &fakeUsers{}
	e := newTestRouter(users)
	client := bearer(t, middleware.Claims{Email: "ana@example.com", Username: "ana", Roles: []string{domain.RoleClient}})

	rec := do(e, http.MethodGet, "/api/v1/authentications/user-auth", client, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if users.principal != "ana@example.com" {
		t.Fatalf("expected email principal, got %q", users.principal)
	}
	if !strings.Contains(rec.Body.String(), `"createdBy":"ana@example.com"`) {
		t.Fatalf("expected actor on request context, got %s", rec.Body.String())
	}
}

func TestRouter_ServesMetrics(t *testing.T) {
	e := newTestRouter(&fakeUsers{})

	rec := do(e, http.MethodGet, "/metrics", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
