package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/auth"
)

// UsersHandler is the account administration API. Password hashes never
// leave the server.
type UsersHandler struct {
	svc auth.UserUseCase
}

func NewUsersHandler(svc auth.UserUseCase) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// @Summary List users
// @Tags    users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=[]auth.Profile}
// @Router  /users [get]
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.List(c, auth.Profiles(users))
}

// @Summary Get user
// @Tags    users
// @Produce json
// @Param   id path int true "user id"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=auth.Profile}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users/{id} [get]
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, u.Profile())
}

// @Summary Create user
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body auth.UserInput true "user"
// @Security BearerAuth
// @Success 201 {object} presenter.Response{data=auth.Profile}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /users [post]
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var in auth.UserInput
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	u, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Utilisateur créé", u.Profile())
}

// @Summary Update user
// @Tags    users
// @Accept  json
// @Produce json
// @Param   id path int true "user id"
// @Param   input body auth.UserPatch true "fields to change"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=auth.Profile}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users/{id} [put]
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in auth.UserPatch
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	u, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Utilisateur mis à jour", u.Profile())
}

// @Summary Delete user
// @Tags    users
// @Param   id path int true "user id"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=auth.Profile}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users/{id} [delete]
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Utilisateur supprimé", u.Profile())
}
