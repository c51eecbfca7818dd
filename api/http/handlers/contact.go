package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/contact"
)

// ContactHandler exposes the contact inbox over the JSON API.
type ContactHandler struct {
	svc *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type importantRequest struct {
	Important *bool `json:"important"`
}

type answerRequest struct {
	Reponse string `json:"reponse"`
}

type deleteManyRequest struct {
	IDs []int `json:"ids"`
}

type deleteManyResponse struct {
	Deleted int `json:"deleted"`
}

// Create stores a visitor message.
// @Summary Send contact message
// @Tags    contact
// @Accept  json
// @Produce json
// @Param   input body contact.NewMessage true "message"
// @Success 201 {object} presenter.Response{data=contact.Message}
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /contact [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in contact.NewMessage
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	msg, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Message envoyé avec succès", msg)
}

// List returns every message, newest first.
// @Summary List messages
// @Tags    contact
// @Produce json
// @Success 200 {object} presenter.Response{data=[]contact.Message}
// @Failure 401 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /contact [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	return h.list(c, h.svc.List)
}

// @Summary Unread messages
// @Tags    contact
// @Produce json
// @Success 200 {object} presenter.Response{data=[]contact.Message}
// @Security BearerAuth
// @Router  /contact/filter/unread [get]
func (h *ContactHandler) Unread(c *fiber.Ctx) error {
	return h.list(c, h.svc.Unread)
}

// @Summary Archived messages
// @Tags    contact
// @Produce json
// @Success 200 {object} presenter.Response{data=[]contact.Message}
// @Security BearerAuth
// @Router  /contact/filter/archived [get]
func (h *ContactHandler) Archived(c *fiber.Ctx) error {
	return h.list(c, h.svc.Archived)
}

// @Summary Messages by category
// @Tags    contact
// @Produce json
// @Param   categorie path string true "support, recrutement, projet or autre"
// @Success 200 {object} presenter.Response{data=[]contact.Message}
// @Security BearerAuth
// @Router  /contact/filter/category/{categorie} [get]
func (h *ContactHandler) ByCategory(c *fiber.Ctx) error {
	category := c.Params("categorie")
	return h.list(c, func(ctx context.Context) ([]contact.Message, error) {
		return h.svc.ByCategory(ctx, category)
	})
}

// @Summary Search messages
// @Tags    contact
// @Produce json
// @Param   q query string true "text to find"
// @Success 200 {object} presenter.Response{data=[]contact.Message}
// @Failure 400 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /contact/search/query [get]
func (h *ContactHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	return h.list(c, func(ctx context.Context) ([]contact.Message, error) {
		return h.svc.Search(ctx, q)
	})
}

// @Summary Inbox statistics
// @Tags    contact
// @Produce json
// @Success 200 {object} presenter.Response{data=contact.Stats}
// @Security BearerAuth
// @Router  /contact/stats/overview [get]
func (h *ContactHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, stats)
}

// @Summary Get message
// @Tags    contact
// @Produce json
// @Param   id path int true "message id"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Failure 404 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /contact/{id} [get]
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	msg, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, msg)
}

// @Summary Mark message read
// @Tags    contact
// @Param   id path int true "message id"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Security BearerAuth
// @Router  /contact/{id}/read [put]
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	return h.update(c, "Message marqué comme lu", h.svc.MarkRead)
}

// @Summary Mark message unread
// @Tags    contact
// @Param   id path int true "message id"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Security BearerAuth
// @Router  /contact/{id}/unread [put]
func (h *ContactHandler) MarkUnread(c *fiber.Ctx) error {
	return h.update(c, "Message marqué comme non lu", h.svc.MarkUnread)
}

// SetImportant flags a message; an absent body means important=true.
// @Summary Flag message important
// @Tags    contact
// @Accept  json
// @Param   id path int true "message id"
// @Param   input body importantRequest false "flag value"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Security BearerAuth
// @Router  /contact/{id}/important [put]
func (h *ContactHandler) SetImportant(c *fiber.Ctx) error {
	var req importantRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
		}
	}
	important := req.Important == nil || *req.Important
	msg := "Message marqué comme important"
	if !important {
		msg = "Message marqué comme non important"
	}
	return h.update(c, msg, func(ctx context.Context, id int) (contact.Message, error) {
		return h.svc.SetImportant(ctx, id, important)
	})
}

// @Summary Mark message answered
// @Tags    contact
// @Accept  json
// @Param   id path int true "message id"
// @Param   input body answerRequest false "reply text"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Security BearerAuth
// @Router  /contact/{id}/answered [put]
func (h *ContactHandler) MarkAnswered(c *fiber.Ctx) error {
	var req answerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
		}
	}
	return h.update(c, "Message marqué comme répondu", func(ctx context.Context, id int) (contact.Message, error) {
		return h.svc.MarkAnswered(ctx, id, req.Reponse)
	})
}

// @Summary Archive message
// @Tags    contact
// @Param   id path int true "message id"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Security BearerAuth
// @Router  /contact/{id}/archive [put]
func (h *ContactHandler) Archive(c *fiber.Ctx) error {
	return h.update(c, "Message archivé", h.svc.Archive)
}

// @Summary Delete message
// @Tags    contact
// @Param   id path int true "message id"
// @Success 200 {object} presenter.Response{data=contact.Message}
// @Failure 404 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /contact/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	return h.update(c, "Message supprimé", h.svc.Delete)
}

// @Summary Delete several messages
// @Tags    contact
// @Accept  json
// @Param   input body deleteManyRequest true "ids"
// @Success 200 {object} presenter.Response{data=deleteManyResponse}
// @Failure 400 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /contact/delete-multiple [post]
func (h *ContactHandler) DeleteMany(c *fiber.Ctx) error {
	var req deleteManyRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	n, err := h.svc.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, fmt.Sprintf("%d message(s) supprimé(s)", n), deleteManyResponse{Deleted: n})
}

func (h *ContactHandler) list(c *fiber.Ctx, load func(ctx context.Context) ([]contact.Message, error)) error {
	msgs, err := load(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.List(c, msgs)
}

func (h *ContactHandler) update(c *fiber.Ctx, msg string, apply func(ctx context.Context, id int) (contact.Message, error)) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := apply(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, msg, out)
}
