package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
}

type RegisterInput struct {
	Nom      string `json:"nom" form:"nom" validate:"required"`
	Prenom   string `json:"prenom" form:"prenom" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Confirm  string `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
}

var registerMessages = validation.Messages{
	"nom":             "Le nom est requis",
	"prenom":          "Le prénom est requis",
	"email.required":  "L'email est requis",
	"email.email":     "L'email n'est pas valide",
	"password":        "Le mot de passe doit contenir au moins 6 caractères",
	"confirmPassword": "Les mots de passe ne correspondent pas",
}

type AuthResult struct {
	User  User
	Token string
}

type authService struct {
	repo   UserRepository
	tokens TokenGenerator
	now    func() time.Time
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenGenerator) AuthUseCase {
	return &authService{repo: repo, tokens: tokens, now: time.Now}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Prenom = strings.TrimSpace(in.Prenom)
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in, registerMessages); err != nil {
		return AuthResult{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.repo.Create(ctx, User{
		Nom:          in.Nom,
		Prenom:       in.Prenom,
		Email:        in.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return AuthResult{}, err
	}
	return s.withToken(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.withToken(ctx, user)
}

func (s *authService) withToken(ctx context.Context, user User) (AuthResult, error) {
	if s.tokens == nil {
		return AuthResult{User: user}, nil
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
