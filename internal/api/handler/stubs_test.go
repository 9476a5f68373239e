package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identityadmin/admin-service/internal/api/middleware"
	"github.com/identityadmin/admin-service/internal/core/ports"
	"github.com/identityadmin/admin-service/internal/core/query"
)

type stubUserService struct {
	findPageableFn   func(ctx context.Context, q ports.UserQuery) (query.Page[ports.UserDTO], error)
	findByIDFn       func(ctx context.Context, id string) (*ports.UserDTO, error)
	findByNameFn     func(ctx context.Context, name string) ([]ports.UserDTO, error)
	createFn         func(ctx context.Context, in ports.UserDTO) (*ports.UserDTO, error)
	editFn           func(ctx context.Context, id string, in ports.UserDTO) (*ports.UserDTO, error)
	deleteFn         func(ctx context.Context, id string) error
	listRolesFn      func(ctx context.Context) ([]ports.RoleDTO, error)
	changePasswordFn func(ctx context.Context, principal string, in ports.UpdatePassword) error
	meFn             func(ctx context.Context, principal string) (*ports.UserDTO, error)
}

func (s *stubUserService) FindPageable(ctx context.Context, q ports.UserQuery) (query.Page[ports.UserDTO], error) {
	return s.findPageableFn(ctx, q)
}

func (s *stubUserService) FindByID(ctx context.Context, id string) (*ports.UserDTO, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserService) FindByName(ctx context.Context, name string) ([]ports.UserDTO, error) {
	return s.findByNameFn(ctx, name)
}

func (s *stubUserService) Create(ctx context.Context, in ports.UserDTO) (*ports.UserDTO, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Edit(ctx context.Context, id string, in ports.UserDTO) (*ports.UserDTO, error) {
	return s.editFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ListRoles(ctx context.Context) ([]ports.RoleDTO, error) {
	return s.listRolesFn(ctx)
}

func (s *stubUserService) ChangePassword(ctx context.Context, principal string, in ports.UpdatePassword) error {
	return s.changePasswordFn(ctx, principal, in)
}

func (s *stubUserService) Me(ctx context.Context, principal string) (*ports.UserDTO, error) {
	return s.meFn(ctx, principal)
}

type stubPersonService struct {
	findAllFn      func(ctx context.Context) ([]ports.PersonDTO, error)
	findPageableFn func(ctx context.Context, q ports.PersonQuery) (query.Page[ports.PersonDTO], error)
	findByNameFn   func(ctx context.Context, name string, page ports.PageQuery) (query.Page[ports.PersonDTO], error)
	findByIDFn     func(ctx context.Context, id string) (*ports.PersonDTO, error)
	createFn       func(ctx context.Context, in ports.PersonDTO) (*ports.PersonDTO, error)
	updateFn       func(ctx context.Context, id string, in ports.PersonDTO) (*ports.PersonDTO, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (s *stubPersonService) FindAll(ctx context.Context) ([]ports.PersonDTO, error) {
	return s.findAllFn(ctx)
}

func (s *stubPersonService) FindPageable(ctx context.Context, q ports.PersonQuery) (query.Page[ports.PersonDTO], error) {
	return s.findPageableFn(ctx, q)
}

func (s *stubPersonService) FindByName(ctx context.Context, name string, page ports.PageQuery) (query.Page[ports.PersonDTO], error) {
	return s.findByNameFn(ctx, name, page)
}

func (s *stubPersonService) FindByID(ctx context.Context, id string) (*ports.PersonDTO, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubPersonService) Create(ctx context.Context, in ports.PersonDTO) (*ports.PersonDTO, error) {
	return s.createFn(ctx, in)
}

func (s *stubPersonService) Update(ctx context.Context, id string, in ports.PersonDTO) (*ports.PersonDTO, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubPersonService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubAddressService struct {
	findByIDFn   func(ctx context.Context, id string) (*ports.AddressDTO, error)
	findByNameFn func(ctx context.Context, name string) ([]ports.AddressDTO, error)
	createFn     func(ctx context.Context, in ports.AddressDTO) (*ports.AddressDTO, error)
	editFn       func(ctx context.Context, id string, in ports.AddressDTO) (*ports.AddressDTO, error)
	deleteFn     func(ctx context.Context, id string) error
	statesFn     func(ctx context.Context, countryID string) ([]ports.StateDTO, error)
	citiesFn     func(ctx context.Context, countryID, stateID string) ([]ports.CityDTO, error)
}

func (s *stubAddressService) FindByID(ctx context.Context, id string) (*ports.AddressDTO, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubAddressService) FindByName(ctx context.Context, name string) ([]ports.AddressDTO, error) {
	return s.findByNameFn(ctx, name)
}

func (s *stubAddressService) Create(ctx context.Context, in ports.AddressDTO) (*ports.AddressDTO, error) {
	return s.createFn(ctx, in)
}

func (s *stubAddressService) Edit(ctx context.Context, id string, in ports.AddressDTO) (*ports.AddressDTO, error) {
	return s.editFn(ctx, id, in)
}

func (s *stubAddressService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAddressService) Logradouros() []ports.LogradouroDTO {
	return []ports.LogradouroDTO{{Value: "RUA", Label: "Rua"}}
}

func (s *stubAddressService) Countries(context.Context) ([]ports.CountryDTO, error) {
	return []ports.CountryDTO{{ID: "BR", Name: "Brasil"}}, nil
}

func (s *stubAddressService) States(ctx context.Context, countryID string) ([]ports.StateDTO, error) {
	return s.statesFn(ctx, countryID)
}

func (s *stubAddressService) Cities(ctx context.Context, countryID, stateID string) ([]ports.CityDTO, error) {
	return s.citiesFn(ctx, countryID, stateID)
}

// newContext builds an echo context for method and target, with a JSON body
// when body is non-empty and path params bound in order.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params)/2)
	values := make([]string, 0, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func withPrincipal(c echo.Context, email, username string) {
	c.Set(middleware.KeyEmail, email)
	c.Set(middleware.KeyUsername, username)
	id := email
	if id == "" {
		id = username
	}
	c.Set(middleware.KeyPrincipal, id)
}

func assertHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}
