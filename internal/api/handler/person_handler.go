package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identityadmin/admin-service/internal/core/ports"
)

// PersonHandler handles HTTP requests for person records.
type PersonHandler struct {
	service ports.PersonService
}

func NewPersonHandler(service ports.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// personNameRequest is the body of POST /people/name. A blank name is
// rejected by the service.
type personNameRequest struct {
	Name string `json:"name"`
	ports.PageQuery
}

// List handles GET /people.
func (h *PersonHandler) List(c echo.Context) error {
	persons, err := h.service.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, persons)
}

// Pageable handles POST /people/pageable.
func (h *PersonHandler) Pageable(c echo.Context) error {
	var q ports.PersonQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	page, err := h.service.FindPageable(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// FindByName handles POST /people/name.
func (h *PersonHandler) FindByName(c echo.Context) error {
	var req personNameRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.service.FindByName(c.Request().Context(), req.Name, req.PageQuery)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /people/:id.
func (h *PersonHandler) Get(c echo.Context) error {
	person, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, person)
}

// Create handles POST /people.
func (h *PersonHandler) Create(c echo.Context) error {
	var req ports.PersonDTO
	if err := bind(c, &req); err != nil {
		return err
	}
	person, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, person)
}

// Update handles PUT /people/:id.
func (h *PersonHandler) Update(c echo.Context) error {
	var req ports.PersonDTO
	if err := bind(c, &req); err != nil {
		return err
	}
	person, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, person)
}

// Delete handles DELETE /people/:id.
func (h *PersonHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedResponse{Deleted: true})
}
