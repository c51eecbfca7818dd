package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/middleware"
	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/auth"
)

type AuthHandler struct {
	useCase           auth.AuthUseCase
	sessions          *middleware.Sessions
	allowRegistration bool
}

func NewAuthHandler(useCase auth.AuthUseCase, sessions *middleware.Sessions, allowRegistration bool) *AuthHandler {
	return &AuthHandler{useCase: useCase, sessions: sessions, allowRegistration: allowRegistration}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  auth.Profile `json:"user"`
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if _, ok := middleware.User(c); ok {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Render("auth/login", fiber.Map{"title": "Connexion", "allowRegistration": h.allowRegistration})
}

// Login signs in from the HTML form. Bad credentials re-render the form with 401.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrValidation) {
			return c.Status(StatusOf(err)).Render("auth/login", fiber.Map{
				"title":             "Connexion",
				"error":             clientMessage(err, StatusOf(err)),
				"email":             req.Email,
				"allowRegistration": h.allowRegistration,
			})
		}
		return err
	}
	if err := h.sessions.Login(c, result.User, "Bienvenue "+result.User.DisplayName()); err != nil {
		return err
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	if !h.allowRegistration {
		return fiber.ErrNotFound
	}
	return c.Render("auth/register", fiber.Map{"title": "Inscription", "form": auth.RegisterInput{}})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if !h.allowRegistration {
		return fiber.ErrNotFound
	}
	var in auth.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	result, err := h.useCase.Register(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, auth.ErrValidation) || errors.Is(err, auth.ErrUserAlreadyExists) {
			in.Password, in.Confirm = "", ""
			return c.Status(StatusOf(err)).Render("auth/register", fiber.Map{
				"title": "Inscription",
				"error": clientMessage(err, StatusOf(err)),
				"form":  in,
			})
		}
		return err
	}
	if err := h.sessions.Login(c, result.User, "Compte créé, bienvenue "+result.User.DisplayName()); err != nil {
		return err
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	if err := h.sessions.SetFlash(c, "success", "Vous êtes déconnecté"); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Token exchanges credentials for a bearer token.
// @Summary Issue API token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "credentials"
// @Success 200 {object} presenter.Response{data=tokenResponse}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, fiber.StatusBadRequest, "email et mot de passe requis")
	}
	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, tokenResponse{Token: result.Token, User: result.User.Profile()})
}
