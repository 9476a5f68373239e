package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identityadmin/admin-service/internal/api/metrics"
	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,max=72"`
}

// Pageable handles POST /users/pageable.
func (h *UserHandler) Pageable(c echo.Context) error {
	var q ports.UserQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	page, err := h.service.FindPageable(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// FindByName handles GET /users/name/:name.
func (h *UserHandler) FindByName(c echo.Context) error {
	users, err := h.service.FindByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /users.
func (h *UserHandler) Create(c echo.Context) error {
	var req ports.UserDTO
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, user)
}

// Edit handles PUT /users/:id.
func (h *UserHandler) Edit(c echo.Context) error {
	var req ports.UserDTO
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.service.Edit(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedResponse{Deleted: true})
}

// Roles handles GET /users/roles.
func (h *UserHandler) Roles(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// ChangePassword handles POST /users/password for the calling principal.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("rejected").Inc()
		return err
	}

	err = h.service.ChangePassword(c.Request().Context(), id, ports.UpdatePassword{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	switch {
	case err == nil:
		metrics.PasswordChangesTotal.WithLabelValues("changed").Inc()
	case errors.Is(err, domain.ErrIncorrectPassword), errors.Is(err, domain.ErrValidation):
		metrics.PasswordChangesTotal.WithLabelValues("rejected").Inc()
		return err
	default:
		metrics.PasswordChangesTotal.WithLabelValues("error").Inc()
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /authentications/user-auth: the calling principal's user.
func (h *UserHandler) Me(c echo.Context) error {
	id, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Me(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
