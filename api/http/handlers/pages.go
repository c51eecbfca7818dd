package handlers

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/middleware"
	"github.com/cvfolio/cvfolio/pkg/contact"
	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/document"
)

// PageHandler serves the public site.
type PageHandler struct {
	cv       *cv.Service
	contact  *contact.Service
	docs     *document.Service
	sessions *middleware.Sessions
}

func NewPageHandler(cvSvc *cv.Service, contactSvc *contact.Service, docs *document.Service, sessions *middleware.Sessions) *PageHandler {
	return &PageHandler{cv: cvSvc, contact: contactSvc, docs: docs, sessions: sessions}
}

// render adds the CV to bind. A non-empty title is suffixed with the CV owner's name.
func (h *PageHandler) render(c *fiber.Ctx, view, title string, bind fiber.Map) error {
	cvData, err := h.cv.Get(c.UserContext())
	if err != nil {
		return err
	}
	bind["cv"] = cvData
	if title != "" {
		bind["title"] = title + " - " + cvData.Nom
	}
	return c.Render(view, bind)
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	hasDocument := false
	if h.docs != nil {
		if docs, err := h.docs.List(c.UserContext()); err == nil {
			hasDocument = len(docs) > 0
		}
	}
	return h.render(c, "public/home", "", fiber.Map{"hasDocument": hasDocument})
}

func (h *PageHandler) Experience(c *fiber.Ctx) error {
	return h.render(c, "public/experience", "Expérience", fiber.Map{})
}

func (h *PageHandler) Formation(c *fiber.Ctx) error {
	return h.render(c, "public/formation", "Formation", fiber.Map{})
}

func (h *PageHandler) Loisirs(c *fiber.Ctx) error {
	return h.render(c, "public/loisirs", "Loisirs", fiber.Map{})
}

func (h *PageHandler) ContactForm(c *fiber.Ctx) error {
	return h.render(c, "public/contact", "Contact", fiber.Map{"form": contact.NewMessage{}})
}

// ContactSubmit stores the message; invalid input re-renders the form with 400.
func (h *PageHandler) ContactSubmit(c *fiber.Ctx) error {
	var in contact.NewMessage
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	if _, err := h.contact.Create(c.UserContext(), in); err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			c.Status(fiber.StatusBadRequest)
			return h.render(c, "public/contact", "Contact", fiber.Map{"form": in, "errors": sortedValues(verr.Fields)})
		}
		return err
	}
	if err := h.sessions.SetFlash(c, "success", "Merci, votre message a bien été envoyé !"); err != nil {
		return err
	}
	return c.Redirect("/contact", fiber.StatusSeeOther)
}

// DownloadCV streams the most recently uploaded CV document.
func (h *PageHandler) DownloadCV(c *fiber.Ctx) error {
	if h.docs == nil {
		return fiber.ErrNotFound
	}
	doc, data, err := h.docs.Latest(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, doc.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Send(data)
}

func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
