package contact

import (
	"errors"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

var (
	ErrValidation = validation.ErrInvalid
	ErrNotFound   = errors.New("message non trouvé")
)

// Message is a contact form submission.
type Message struct {
	ID          int    `json:"id"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom,omitempty"`
	Email       string `json:"email"`
	Telephone   string `json:"telephone,omitempty"`
	Sujet       string `json:"sujet"`
	Message     string `json:"message"`
	Date        string `json:"date"`
	DateLisible string `json:"dateLisible"`
	Lu          bool   `json:"lu"`
	Repondu     bool   `json:"repondu"`
	Important   bool   `json:"important"`
	Archive     bool   `json:"archive"`
	Categorie   string `json:"categorie"`
	Reponse     string `json:"reponse,omitempty"`
	DateReponse string `json:"dateReponse,omitempty"`
}

// NewMessage is what a visitor submits, from the HTML form or the API.
type NewMessage struct {
	Nom       string `json:"nom" form:"nom" validate:"required"`
	Prenom    string `json:"prenom" form:"prenom"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Telephone string `json:"telephone" form:"telephone"`
	Sujet     string `json:"sujet" form:"sujet" validate:"required"`
	Message   string `json:"message" form:"message" validate:"required"`
}

type Stats struct {
	Total        int            `json:"total"`
	NonLus       int            `json:"nonLus"`
	Lus          int            `json:"lus"`
	Importants   int            `json:"importants"`
	Repondus     int            `json:"repondus"`
	Archives     int            `json:"archives"`
	ParCategorie map[string]int `json:"parCategorie"`
}

// ValidationError carries one message per invalid field.
type ValidationError = validation.Error
