package contact

import "github.com/cvfolio/cvfolio/pkg/nlp"

const (
	CategorySupport     = "support"
	CategoryRecrutement = "recrutement"
	CategoryProjet      = "projet"
	CategoryAutre       = "autre"
)

type rule struct {
	category string
	keywords []string
}

// Evaluated in order; the first category with a matching keyword wins.
var rules = []rule{
	{CategorySupport, []string{"bug", "erreur", "error", "probleme", "panne", "aide", "help", "support", "souci"}},
	{CategoryRecrutement, []string{"emploi", "job", "stage", "alternance", "recrutement", "candidature", "poste", "cv"}},
	{CategoryProjet, []string{"projet", "devis", "mission", "freelance", "prestation", "tarif", "collaboration"}},
}

// Categories lists every category a message can get.
func Categories() []string {
	return []string{CategorySupport, CategoryRecrutement, CategoryProjet, CategoryAutre}
}

// Categorize derives the message category from its subject.
func Categorize(subject string) string {
	text := nlp.NormalizeText(subject)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if nlp.ContainsPhrase(text, kw) {
				return r.category
			}
		}
	}
	return CategoryAutre
}
