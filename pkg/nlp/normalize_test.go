package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "probleme de connexion", Fold("Problème de Connexion"))
	assert.Equal(t, "ecole superieure", Fold("École Supérieure"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "re bug sur l app", NormalizeText("  RE: Bug sur l'app!! "))
	assert.Equal(t, []string{"a", "b"}, Tokens("a b"))
	assert.Empty(t, Tokens(""))
}

func TestContainsPhrase(t *testing.T) {
	text := NormalizeText("Un petit bug dans le formulaire")
	assert.True(t, ContainsPhrase(text, "bug"))
	assert.True(t, ContainsPhrase(text, "le formulaire"))
	assert.False(t, ContainsPhrase(NormalizeText("debugging session"), "bug"))
	assert.False(t, ContainsPhrase(text, ""))
	assert.True(t, ContainsPhrase(NormalizeText("Plusieurs bugs"), "bug"))
	assert.True(t, ContainsPhrase(NormalizeText("Nouveaux projets web"), "projet web"))
	assert.False(t, ContainsPhrase(NormalizeText("Un panneau"), "panne"))
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "erreur", Singular("erreurs"))
	assert.Equal(t, "emploi", Singular("emplois"))
	assert.Equal(t, "nouveau", Singular("nouveaux"))
	assert.Equal(t, "bus", Singular("bus"))
	assert.Equal(t, "cv", Singular("cv"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Demande de Stage", "stage"))
	assert.True(t, ContainsFold("Hélène", "helene"))
	assert.False(t, ContainsFold("Hélène", "marc"))
}

func TestSameSkill(t *testing.T) {
	assert.True(t, SameSkill("Golang", "go"))
	assert.True(t, SameSkill("PostgreSQL", "postgres"))
	assert.True(t, SameSkill("Node.js", "node"))
	assert.False(t, SameSkill("Go", "Rust"))
	assert.False(t, SameSkill("", ""))
}
