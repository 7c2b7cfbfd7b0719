package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminboard/dashboard-api/internal/core/ports"
)

type UserHandler struct {
	directory ports.UserDirectory
}

func NewUserHandler(directory ports.UserDirectory) *UserHandler {
	return &UserHandler{directory: directory}
}

// List returns every registered user, newest first. Route access is enforced
// by the RequireRole middleware.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UserListing
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.directory.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
