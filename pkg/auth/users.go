package auth

import (
	"context"
	"strings"
	"time"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

// UserUseCase is the administrative CRUD over accounts.
type UserUseCase interface {
	Create(ctx context.Context, in UserInput) (User, error)
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int) (User, error)
	Update(ctx context.Context, id int, in UserPatch) (User, error)
	Delete(ctx context.Context, id int) (User, error)
}

type UserInput struct {
	Nom    string `json:"nom" validate:"required"`
	Prenom string `json:"prenom" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

var userMessages = validation.Messages{
	"nom":            "Le nom est requis",
	"prenom":         "Le prénom est requis",
	"email.required": "L'email est requis",
	"email.email":    "L'email n'est pas valide",
}

func (in UserInput) normalized() UserInput {
	return UserInput{
		Nom:    strings.TrimSpace(in.Nom),
		Prenom: strings.TrimSpace(in.Prenom),
		Email:  normalizeEmail(in.Email),
	}
}

// UserPatch lists the fields an update may change.
type UserPatch struct {
	Nom    *string `json:"nom"`
	Prenom *string `json:"prenom"`
	Email  *string `json:"email"`
}

type userService struct {
	repo UserRepository
	now  func() time.Time
}

func NewUserService(repo UserRepository) UserUseCase {
	return &userService{repo: repo, now: time.Now}
}

// Create adds an account without a password; it cannot sign in until one is set.
func (s *userService) Create(ctx context.Context, in UserInput) (User, error) {
	in = in.normalized()
	if err := validation.Struct(in, userMessages); err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		Nom:       in.Nom,
		Prenom:    in.Prenom,
		Email:     in.Email,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *userService) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) Update(ctx context.Context, id int, in UserPatch) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	next := UserInput{Nom: user.Nom, Prenom: user.Prenom, Email: user.Email}
	if in.Nom != nil {
		next.Nom = *in.Nom
	}
	if in.Prenom != nil {
		next.Prenom = *in.Prenom
	}
	if in.Email != nil {
		next.Email = *in.Email
	}
	next = next.normalized()
	if err := validation.Struct(next, userMessages); err != nil {
		return User{}, err
	}
	user.Nom, user.Prenom, user.Email = next.Nom, next.Prenom, next.Email
	user.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return s.repo.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id int) (User, error) {
	return s.repo.Delete(ctx, id)
}
