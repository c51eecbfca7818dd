package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

type signup struct {
	Nom      string `json:"nom" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password"`
	Ignored  string `json:"-"`
}

var messages = validation.Messages{
	"nom":             "Le nom est requis",
	"email.required":  "L'email est requis",
	"email.email":     "L'email n'est pas valide",
	"confirmPassword": "Les mots de passe ne correspondent pas",
}

func TestStruct(t *testing.T) {
	require.NoError(t, validation.Struct(signup{Nom: "A", Email: "a@b.fr", Password: "abcdef", Confirm: "abcdef"}, messages))

	err := validation.Struct(signup{Email: "nope", Password: "abc", Confirm: "abd"}, messages)
	require.ErrorIs(t, err, validation.ErrInvalid)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"nom":             "Le nom est requis",
		"email":           "L'email n'est pas valide",
		"password":        "Le champ password n'est pas valide",
		"confirmPassword": "Les mots de passe ne correspondent pas",
	}, verr.Fields)
	assert.Equal(t,
		"Le nom est requis, L'email n'est pas valide, Le champ password n'est pas valide, Les mots de passe ne correspondent pas",
		verr.Error())
}

func TestStruct_RequiredBeforeFormat(t *testing.T) {
	err := validation.Struct(signup{Nom: "A", Password: "abcdef", Confirm: "abcdef"}, messages)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"email": "L'email est requis"}, verr.Fields)
}

func TestField(t *testing.T) {
	err := validation.Field("q", "Paramètre q requis")
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.Equal(t, "Paramètre q requis", err.Error())
}
