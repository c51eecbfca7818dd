package auth

import (
	"context"
	"errors"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("utilisateur non trouvé")
	ErrUserAlreadyExists  = errors.New("un compte existe déjà avec cet email")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrValidation         = validation.ErrInvalid
)

// UserRepository abstracts persistence concerns from the domain layer.
// Create and Update must reject a duplicate email with ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int) (User, error)
}
