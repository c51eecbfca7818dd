package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/middleware"
	"github.com/cvfolio/cvfolio/pkg/contact"
	"github.com/cvfolio/cvfolio/pkg/cv"
)

// AdminHandler serves the session-protected back office pages.
type AdminHandler struct {
	cv       *cv.Service
	contact  *contact.Service
	sessions *middleware.Sessions
}

func NewAdminHandler(cvSvc *cv.Service, contactSvc *contact.Service, sessions *middleware.Sessions) *AdminHandler {
	return &AdminHandler{cv: cvSvc, contact: contactSvc, sessions: sessions}
}

type experienceForm struct {
	Poste       string `form:"poste"`
	Entreprise  string `form:"entreprise"`
	Debut       string `form:"debut"`
	Fin         string `form:"fin"`
	Periode     string `form:"periode"`
	Description string `form:"description"`
	Ordre       int    `form:"ordre"`
}

type formationForm struct {
	Etablissement string `form:"etablissement"`
	Localisation  string `form:"localisation"`
	Periode       string `form:"periode"`
	Diplome       string `form:"diplome"`
	Description   string `form:"description"`
	Ordre         int    `form:"ordre"`
}

type loisirForm struct {
	Nom     string `form:"nom"`
	Details string `form:"details"`
	Ordre   int    `form:"ordre"`
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cvData, err := h.cv.Get(ctx)
	if err != nil {
		return err
	}
	stats, err := h.cv.Stats(ctx)
	if err != nil {
		return err
	}
	msgStats, err := h.contact.Stats(ctx)
	if err != nil {
		return err
	}
	return c.Render("admin/dashboard", fiber.Map{"title": "Administration", "cv": cvData, "stats": stats, "messages": msgStats})
}

func (h *AdminHandler) Experiences(c *fiber.Ctx) error {
	cvData, err := h.cv.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("admin/experiences", fiber.Map{"title": "Expériences - Administration", "cv": cvData, "items": cvData.Experiences})
}

func (h *AdminHandler) NewExperience(c *fiber.Ctx) error {
	return c.Render("admin/experience_form", fiber.Map{"title": "Nouvelle expérience", "form": experienceForm{}})
}

func (h *AdminHandler) CreateExperience(c *fiber.Ctx) error {
	var f experienceForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	_, err := h.cv.AddExperience(c.UserContext(), cv.Experience{
		Poste: f.Poste, Entreprise: f.Entreprise, Debut: f.Debut, Fin: f.Fin,
		Periode: f.Periode, Description: f.Description, Ordre: f.Ordre,
	})
	if errors.Is(err, cv.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).Render("admin/experience_form", fiber.Map{"title": "Nouvelle expérience", "form": f, "error": clientMessage(err, fiber.StatusBadRequest)})
	}
	if err != nil {
		return err
	}
	return h.done(c, "/admin/experiences", "Expérience ajoutée")
}

func (h *AdminHandler) DeleteExperience(c *fiber.Ctx) error {
	return h.remove(c, "/admin/experiences", "Expérience supprimée", h.cv.DeleteExperience)
}

func (h *AdminHandler) Formations(c *fiber.Ctx) error {
	cvData, err := h.cv.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("admin/formations", fiber.Map{"title": "Formations - Administration", "cv": cvData, "items": cvData.Formation})
}

func (h *AdminHandler) NewFormation(c *fiber.Ctx) error {
	return c.Render("admin/formation_form", fiber.Map{"title": "Nouvelle formation", "form": formationForm{}})
}

func (h *AdminHandler) CreateFormation(c *fiber.Ctx) error {
	var f formationForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	_, err := h.cv.AddFormation(c.UserContext(), cv.Formation{
		Etablissement: f.Etablissement, Localisation: f.Localisation, Periode: f.Periode,
		Diplome: f.Diplome, Description: f.Description, Ordre: f.Ordre,
	})
	if errors.Is(err, cv.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).Render("admin/formation_form", fiber.Map{"title": "Nouvelle formation", "form": f, "error": clientMessage(err, fiber.StatusBadRequest)})
	}
	if err != nil {
		return err
	}
	return h.done(c, "/admin/formations", "Formation ajoutée")
}

func (h *AdminHandler) DeleteFormation(c *fiber.Ctx) error {
	return h.remove(c, "/admin/formations", "Formation supprimée", h.cv.DeleteFormation)
}

func (h *AdminHandler) Loisirs(c *fiber.Ctx) error {
	cvData, err := h.cv.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("admin/loisirs", fiber.Map{"title": "Loisirs - Administration", "cv": cvData, "items": cvData.Loisirs})
}

func (h *AdminHandler) NewLoisir(c *fiber.Ctx) error {
	return c.Render("admin/loisir_form", fiber.Map{"title": "Nouveau loisir", "form": loisirForm{}})
}

func (h *AdminHandler) CreateLoisir(c *fiber.Ctx) error {
	var f loisirForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	_, err := h.cv.AddLoisir(c.UserContext(), cv.Loisir{Nom: f.Nom, Details: f.Details, Ordre: f.Ordre})
	if errors.Is(err, cv.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).Render("admin/loisir_form", fiber.Map{"title": "Nouveau loisir", "form": f, "error": clientMessage(err, fiber.StatusBadRequest)})
	}
	if err != nil {
		return err
	}
	return h.done(c, "/admin/loisirs", "Loisir ajouté")
}

func (h *AdminHandler) DeleteLoisir(c *fiber.Ctx) error {
	return h.remove(c, "/admin/loisirs", "Loisir supprimé", h.cv.DeleteLoisir)
}

func (h *AdminHandler) Messages(c *fiber.Ctx) error {
	ctx := c.UserContext()
	msgs, err := h.contact.List(ctx)
	if err != nil {
		return err
	}
	stats, err := h.contact.Stats(ctx)
	if err != nil {
		return err
	}
	return c.Render("admin/messages", fiber.Map{"title": "Messages - Administration", "items": msgs, "stats": stats})
}

func (h *AdminHandler) ReadMessage(c *fiber.Ctx) error {
	return h.remove(c, "/admin/messages", "Message marqué comme lu", func(ctx context.Context, id int) error {
		_, err := h.contact.MarkRead(ctx, id)
		return err
	})
}

func (h *AdminHandler) DeleteMessage(c *fiber.Ctx) error {
	return h.remove(c, "/admin/messages", "Message supprimé", func(ctx context.Context, id int) error {
		_, err := h.contact.Delete(ctx, id)
		return err
	})
}

// remove runs an id-based action and redirects back with a flash; unknown
// ids produce an error flash instead of a failure page.
func (h *AdminHandler) remove(c *fiber.Ctx, back, success string, action func(ctx context.Context, id int) error) error {
	id, err := paramID(c)
	if err == nil {
		err = action(c.UserContext(), id)
	}
	if err != nil {
		if StatusOf(err) != fiber.StatusNotFound {
			return err
		}
		if err := h.sessions.SetFlash(c, "error", "Élément introuvable"); err != nil {
			return err
		}
		return c.Redirect(back, fiber.StatusSeeOther)
	}
	return h.done(c, back, success)
}

func (h *AdminHandler) done(c *fiber.Ctx, back, message string) error {
	if err := h.sessions.SetFlash(c, "success", message); err != nil {
		return err
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}
