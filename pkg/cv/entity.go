package cv

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("introuvable")
)

type Reseaux struct {
	Github   string `json:"github" yaml:"github"`
	Linkedin string `json:"linkedin" yaml:"linkedin"`
}

type Experience struct {
	ID          int    `json:"id" yaml:"id"`
	Poste       string `json:"poste" yaml:"poste"`
	Entreprise  string `json:"entreprise,omitempty" yaml:"entreprise"`
	Debut       string `json:"debut,omitempty" yaml:"debut"`
	Fin         string `json:"fin,omitempty" yaml:"fin"`
	Periode     string `json:"periode,omitempty" yaml:"periode"`
	Description string `json:"description,omitempty" yaml:"description"`
	Ordre       int    `json:"ordre" yaml:"ordre"`
}

type Formation struct {
	ID            int    `json:"id" yaml:"id"`
	Etablissement string `json:"etablissement" yaml:"etablissement"`
	Localisation  string `json:"localisation,omitempty" yaml:"localisation"`
	Periode       string `json:"periode,omitempty" yaml:"periode"`
	Diplome       string `json:"diplome,omitempty" yaml:"diplome"`
	Description   string `json:"description,omitempty" yaml:"description"`
	Ordre         int    `json:"ordre" yaml:"ordre"`
}

type Competence struct {
	ID     int    `json:"id" yaml:"id"`
	Nom    string `json:"nom" yaml:"nom"`
	Niveau string `json:"niveau" yaml:"niveau"`
}

type Langue struct {
	Nom    string `json:"nom" yaml:"nom"`
	Niveau string `json:"niveau" yaml:"niveau"`
}

type Loisir struct {
	ID      int    `json:"id" yaml:"id"`
	Nom     string `json:"nom" yaml:"nom"`
	Details string `json:"details,omitempty" yaml:"details"`
	Ordre   int    `json:"ordre" yaml:"ordre"`
}

// CV is the single profile document shown on the public pages.
type CV struct {
	Nom          string       `json:"nom" yaml:"nom"`
	Titre        string       `json:"titre" yaml:"titre"`
	Photo        string       `json:"photo,omitempty" yaml:"photo"`
	Localisation string       `json:"localisation" yaml:"localisation"`
	Email        string       `json:"email" yaml:"email"`
	Telephone    string       `json:"telephone" yaml:"telephone"`
	SiteWeb      string       `json:"siteWeb,omitempty" yaml:"siteWeb"`
	Profil       string       `json:"profil" yaml:"profil"`
	Experiences  []Experience `json:"experiences" yaml:"experiences"`
	Formation    []Formation  `json:"formation" yaml:"formation"`
	Competences  []Competence `json:"competences" yaml:"competences"`
	Langues      []Langue     `json:"langues" yaml:"langues"`
	Loisirs      []Loisir     `json:"loisirs" yaml:"loisirs"`
	Reseaux      Reseaux      `json:"reseaux" yaml:"reseaux"`
	UpdatedAt    string       `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// Patch lists the CV fields a client may change. Nil fields are left as is.
type Patch struct {
	Nom          *string   `json:"nom"`
	Titre        *string   `json:"titre"`
	Photo        *string   `json:"photo"`
	Localisation *string   `json:"localisation"`
	Email        *string   `json:"email"`
	Telephone    *string   `json:"telephone"`
	SiteWeb      *string   `json:"siteWeb"`
	Profil       *string   `json:"profil"`
	Langues      *[]Langue `json:"langues"`
	Reseaux      *Reseaux  `json:"reseaux"`
}

// Stats counts the entries of every CV section.
type Stats struct {
	Experiences int    `json:"experiences"`
	Formations  int    `json:"formations"`
	Competences int    `json:"competences"`
	Langues     int    `json:"langues"`
	Loisirs     int    `json:"loisirs"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
