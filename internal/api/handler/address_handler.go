package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identityadmin/admin-service/internal/core/ports"
)

// AddressHandler handles HTTP requests for addresses and the reference
// catalogues an address form needs (street types and the geo hierarchy).
type AddressHandler struct {
	service ports.AddressService
}

func NewAddressHandler(service ports.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// Get handles GET /addresses/:id.
func (h *AddressHandler) Get(c echo.Context) error {
	address, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, address)
}

// FindByName handles GET /addresses/name/:name.
func (h *AddressHandler) FindByName(c echo.Context) error {
	addresses, err := h.service.FindByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addresses)
}

// Create handles POST /addresses.
func (h *AddressHandler) Create(c echo.Context) error {
	var req ports.AddressDTO
	if err := bind(c, &req); err != nil {
		return err
	}
	address, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, address)
}

// Edit handles PUT /addresses/:id.
func (h *AddressHandler) Edit(c echo.Context) error {
	var req ports.AddressDTO
	if err := bind(c, &req); err != nil {
		return err
	}
	address, err := h.service.Edit(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, address)
}

// Delete handles DELETE /addresses/:id.
func (h *AddressHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedResponse{Deleted: true})
}

// Logradouros handles GET /addresses/logradouros.
func (h *AddressHandler) Logradouros(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Logradouros())
}

// Countries handles GET /addresses/countries.
func (h *AddressHandler) Countries(c echo.Context) error {
	countries, err := h.service.Countries(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countries)
}

// States handles GET /addresses/countries/:country/states.
func (h *AddressHandler) States(c echo.Context) error {
	states, err := h.service.States(c.Request().Context(), c.Param("country"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, states)
}

// Cities handles GET /addresses/countries/:country/states/:state/cities.
func (h *AddressHandler) Cities(c echo.Context) error {
	cities, err := h.service.Cities(c.Request().Context(), c.Param("country"), c.Param("state"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cities)
}
