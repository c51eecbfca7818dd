package product

import (
	"errors"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

var (
	ErrNotFound   = errors.New("produit non trouvé")
	ErrValidation = validation.ErrInvalid
)

type Product struct {
	ID        int     `json:"id"`
	Nom       string  `json:"nom" validate:"required"`
	Prix      float64 `json:"prix" validate:"gte=0"`
	Stock     int     `json:"stock" validate:"gte=0"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// Input is used for creation (all fields required) and updates (nil fields kept).
// Only Create checks its tags.
type Input struct {
	Nom   *string  `json:"nom" validate:"required"`
	Prix  *float64 `json:"prix" validate:"required"`
	Stock *int     `json:"stock" validate:"required"`
}

var messages = validation.Messages{
	"nom":            "Le nom est requis",
	"prix.required":  "Le prix est requis",
	"prix.gte":       "Le prix doit être positif",
	"stock.required": "Le stock est requis",
	"stock.gte":      "Le stock doit être positif",
}
