package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/auth"
	"github.com/cvfolio/cvfolio/pkg/contact"
	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/document"
	"github.com/cvfolio/cvfolio/pkg/product"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/validation"
)

// StatusOf maps a domain error to its HTTP status.
func StatusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, cv.ErrValidation),
		errors.Is(err, document.ErrUnsupportedFormat),
		errors.Is(err, document.ErrEmpty):
		return fiber.StatusBadRequest
	case errors.Is(err, document.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, contact.ErrNotFound),
		errors.Is(err, cv.ErrNotFound),
		errors.Is(err, auth.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, document.ErrNotFound),
		errors.Is(err, recordstore.ErrInvalidID):
		return fiber.StatusNotFound
	case errors.Is(err, auth.ErrUserAlreadyExists),
		errors.Is(err, document.ErrNoProfile):
		return fiber.StatusConflict
	case errors.Is(err, document.ErrExtraction):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the Fiber error handler: JSON envelopes under /api and
// rendered error pages elsewhere. Internal details are shown only when
// exposeDetails is set.
func ErrorHandler(exposeDetails bool, log func(c *fiber.Ctx, err error)) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusOf(err)
		if status >= fiber.StatusInternalServerError && log != nil {
			log(c, err)
		}

		message := clientMessage(err, status)
		detail := ""
		if status >= fiber.StatusInternalServerError && status != fiber.StatusBadGateway {
			message = "Erreur interne du serveur"
			if exposeDetails {
				detail = err.Error()
			}
		}

		if isAPI(c) {
			var verr *validation.Error
			if errors.As(err, &verr) {
				return presenter.ValidationError(c, "Données invalides", verr.Fields)
			}
			return presenter.JSON(c, status, presenter.ErrorResponse{Status: presenter.StatusError, Message: message, Error: detail})
		}

		if status == fiber.StatusNotFound {
			return c.Status(status).Render("errors/404", fiber.Map{"title": "Page introuvable"})
		}
		return c.Status(status).Render("errors/500", fiber.Map{"title": "Erreur", "message": message, "detail": detail})
	}
}

// NotFound handles requests no route matched.
func NotFound(c *fiber.Ctx) error {
	if isAPI(c) {
		return presenter.Error(c, fiber.StatusNotFound, "Route introuvable")
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"title": "Page introuvable"})
}

// clientMessage strips the sentinel prefix of wrapped validation errors.
func clientMessage(err error, status int) string {
	msg := err.Error()
	if errors.Is(err, recordstore.ErrInvalidID) {
		return "Ressource introuvable"
	}
	if status < fiber.StatusInternalServerError {
		if _, rest, ok := strings.Cut(msg, "validation failed: "); ok {
			return rest
		}
	}
	return msg
}

func isAPI(c *fiber.Ctx) bool {
	p := c.Path()
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func paramID(c *fiber.Ctx) (int, error) {
	return recordstore.ParseID(c.Params("id"))
}
