package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/cv"
)

// CVHandler exposes the CV document over the JSON API.
type CVHandler struct {
	svc *cv.Service
}

func NewCVHandler(svc *cv.Service) *CVHandler {
	return &CVHandler{svc: svc}
}

// Get returns the whole CV.
// @Summary Get CV
// @Tags    cv
// @Produce json
// @Success 200 {object} presenter.Response{data=cv.CV}
// @Router  /cv [get]
func (h *CVHandler) Get(c *fiber.Ctx) error {
	data, err := h.svc.Get(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, data)
}

// Stats counts the CV sections.
// @Summary CV statistics
// @Tags    cv
// @Produce json
// @Success 200 {object} presenter.Response{data=cv.Stats}
// @Router  /cv/stats [get]
func (h *CVHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, stats)
}

// Update patches the scalar fields of the CV.
// @Summary Update CV
// @Tags    cv
// @Accept  json
// @Produce json
// @Param   input body cv.Patch true "fields to change"
// @Success 200 {object} presenter.Response{data=cv.CV}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /cv [put]
func (h *CVHandler) Update(c *fiber.Ctx) error {
	var p cv.Patch
	if err := c.BodyParser(&p); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	data, err := h.svc.Update(c.UserContext(), p)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "CV mis à jour", data)
}

// Reset restores the default CV.
// @Summary Reset CV
// @Tags    cv
// @Produce json
// @Success 200 {object} presenter.Response{data=cv.CV}
// @Security BearerAuth
// @Router  /cv/reset [post]
func (h *CVHandler) Reset(c *fiber.Ctx) error {
	data, err := h.svc.Reset(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "CV réinitialisé", data)
}

// AddExperience appends an experience.
// @Summary Add experience
// @Tags    cv
// @Accept  json
// @Produce json
// @Param   input body cv.Experience true "experience"
// @Success 201 {object} presenter.Response{data=cv.Experience}
// @Failure 400 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /cv/experiences [post]
func (h *CVHandler) AddExperience(c *fiber.Ctx) error {
	var in cv.Experience
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	out, err := h.svc.AddExperience(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Expérience ajoutée", out)
}

// DeleteExperience removes an experience.
// @Summary Delete experience
// @Tags    cv
// @Produce json
// @Param   id path int true "experience id"
// @Success 200 {object} presenter.Response
// @Failure 404 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /cv/experiences/{id} [delete]
func (h *CVHandler) DeleteExperience(c *fiber.Ctx) error {
	return h.deleteItem(c, "Expérience supprimée", h.svc.DeleteExperience)
}

// @Summary Add formation
// @Tags    cv
// @Accept  json
// @Produce json
// @Param   input body cv.Formation true "formation"
// @Success 201 {object} presenter.Response{data=cv.Formation}
// @Security BearerAuth
// @Router  /cv/formations [post]
func (h *CVHandler) AddFormation(c *fiber.Ctx) error {
	var in cv.Formation
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	out, err := h.svc.AddFormation(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Formation ajoutée", out)
}

// @Summary Delete formation
// @Tags    cv
// @Param   id path int true "formation id"
// @Success 200 {object} presenter.Response
// @Security BearerAuth
// @Router  /cv/formations/{id} [delete]
func (h *CVHandler) DeleteFormation(c *fiber.Ctx) error {
	return h.deleteItem(c, "Formation supprimée", h.svc.DeleteFormation)
}

// @Summary Add competence
// @Tags    cv
// @Accept  json
// @Produce json
// @Param   input body cv.Competence true "competence"
// @Success 201 {object} presenter.Response{data=cv.Competence}
// @Security BearerAuth
// @Router  /cv/competences [post]
func (h *CVHandler) AddCompetence(c *fiber.Ctx) error {
	var in cv.Competence
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	out, err := h.svc.AddCompetence(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Compétence ajoutée", out)
}

// @Summary Delete competence
// @Tags    cv
// @Param   id path int true "competence id"
// @Success 200 {object} presenter.Response
// @Security BearerAuth
// @Router  /cv/competences/{id} [delete]
func (h *CVHandler) DeleteCompetence(c *fiber.Ctx) error {
	return h.deleteItem(c, "Compétence supprimée", h.svc.DeleteCompetence)
}

// @Summary Add loisir
// @Tags    cv
// @Accept  json
// @Produce json
// @Param   input body cv.Loisir true "loisir"
// @Success 201 {object} presenter.Response{data=cv.Loisir}
// @Security BearerAuth
// @Router  /cv/loisirs [post]
func (h *CVHandler) AddLoisir(c *fiber.Ctx) error {
	var in cv.Loisir
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	out, err := h.svc.AddLoisir(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Loisir ajouté", out)
}

// @Summary Delete loisir
// @Tags    cv
// @Param   id path int true "loisir id"
// @Success 200 {object} presenter.Response
// @Security BearerAuth
// @Router  /cv/loisirs/{id} [delete]
func (h *CVHandler) DeleteLoisir(c *fiber.Ctx) error {
	return h.deleteItem(c, "Loisir supprimé", h.svc.DeleteLoisir)
}

func (h *CVHandler) deleteItem(c *fiber.Ctx, msg string, del func(ctx context.Context, id int) error) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := del(c.UserContext(), id); err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, msg, nil)
}
