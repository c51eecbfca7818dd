package document

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedFormat = errors.New("format non supporté : seuls les fichiers pdf et docx sont acceptés")
	ErrTooLarge          = errors.New("fichier trop volumineux")
	ErrEmpty             = errors.New("le document ne contient aucun texte")
	ErrNotFound          = errors.New("document non trouvé")
	ErrExtraction        = errors.New("échec de l'extraction du profil")
	ErrNoProfile         = errors.New("aucun profil extrait pour ce document")
)

// Document is an uploaded CV file and the text read from it.
type Document struct {
	ID         int            `json:"id"`
	Filename   string         `json:"filename"`
	MimeType   string         `json:"mimeType"`
	Size       int64          `json:"size"`
	StorageKey string         `json:"storageKey"`
	Text       string         `json:"text"`
	CreatedAt  string         `json:"createdAt"`
	Profile    *ProfileRecord `json:"profile,omitempty"`
}

// Profile is the structured view of a CV returned by the chat model.
type Profile struct {
	Summary    string           `json:"summary"`
	Skills     []string         `json:"skills"`
	Experience []ExperienceItem `json:"experience"`
	Education  []EducationItem  `json:"education"`
}

type ExperienceItem struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}

type EducationItem struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Location    string `json:"location"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

type ProfileStatus string

const (
	ProfileStatusPending ProfileStatus = "pending"
	ProfileStatusOK      ProfileStatus = "ok"
	ProfileStatusFailed  ProfileStatus = "failed"
)

type ProfileRecord struct {
	Status    ProfileStatus `json:"status"`
	Model     string        `json:"model"`
	Error     string        `json:"error,omitempty"`
	Profile   Profile       `json:"profile"`
	UpdatedAt string        `json:"updatedAt"`
}

// ImportResult counts what an import added to the CV.
type ImportResult struct {
	Experiences int  `json:"experiences"`
	Formations  int  `json:"formations"`
	Competences int  `json:"competences"`
	Profil      bool `json:"profil"`
}

// Repository stores document metadata.
type Repository interface {
	Create(ctx context.Context, d Document) (Document, error)
	Get(ctx context.Context, id int) (Document, error)
	List(ctx context.Context) ([]Document, error)
	Latest(ctx context.Context) (Document, error)
	SetProfile(ctx context.Context, id int, rec ProfileRecord) error
}
