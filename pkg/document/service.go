// Package document handles uploaded CV files: storage of the original,
// text extraction, and importing a model-extracted profile into the CV.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/llm"
	"github.com/cvfolio/cvfolio/pkg/logging"
	"github.com/cvfolio/cvfolio/pkg/nlp"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/storage/blob"
)

const (
	MaxUploadBytes = 15 << 20

	maxPromptChars  = 12_000
	importedNiveau  = "À préciser"
	systemPrompt    = "Tu es un assistant de recrutement. Réponds en français. Renvoie STRICTEMENT un objet JSON, sans markdown ni explication. Les listes vides sont [] et jamais null. N'invente aucun fait."
	userPromptShape = `Texte du CV :
<<<
%s
>>>

Renvoie STRICTEMENT un objet JSON selon ce schéma :
{
  "summary": string,
  "skills": string[],
  "experience": [{"company":string,"role":string,"start":string,"end":string,"description":string}],
  "education": [{"institution":string,"degree":string,"location":string,"start":string,"end":string}]
}`
)

// CVMerger applies changes to the stored CV atomically.
type CVMerger interface {
	Merge(ctx context.Context, fn func(c *cv.CV) error) (cv.CV, error)
}

type Service struct {
	repo      Repository
	blobs     blob.Store
	model     llm.ChatModel
	modelName string
	cv        CVMerger
	log       logging.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithChatModel enables profile extraction.
func WithChatModel(model llm.ChatModel, name string) Option {
	return func(s *Service) {
		s.model = model
		s.modelName = name
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, blobs blob.Store, merger CVMerger, opts ...Option) *Service {
	s := &Service{repo: repo, blobs: blobs, cv: merger, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores the file and its extracted text.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := MimeTypes[ext]
	if !ok {
		return Document{}, ErrUnsupportedFormat
	}
	if len(data) > MaxUploadBytes {
		return Document{}, fmt.Errorf("%w: max %d MiB", ErrTooLarge, MaxUploadBytes>>20)
	}
	text, err := ParseText(filename, data)
	if err != nil {
		return Document{}, err
	}
	if text == "" {
		return Document{}, ErrEmpty
	}

	key := fmt.Sprintf("documents/%s%s", uuid.NewString(), ext)
	if err := s.blobs.Put(ctx, key, mimeType, data); err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}
	doc, err := s.repo.Create(ctx, Document{
		Filename:   filepath.Base(filename),
		MimeType:   mimeType,
		Size:       int64(len(data)),
		StorageKey: key,
		Text:       text,
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		_ = s.blobs.Delete(ctx, key)
		return Document{}, err
	}
	s.log.Info(ctx, "cv document uploaded", "id", doc.ID, "filename", doc.Filename, "size", doc.Size)
	return doc, nil
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (Document, error) {
	return s.repo.Get(ctx, id)
}

// Latest returns the most recent document with its file contents.
func (s *Service) Latest(ctx context.Context) (Document, []byte, error) {
	doc, err := s.repo.Latest(ctx)
	if err != nil {
		return Document{}, nil, err
	}
	data, err := s.blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return Document{}, nil, ErrNotFound
		}
		return Document{}, nil, err
	}
	return doc, data, nil
}

// Extract asks the chat model for a structured profile of the document and
// stores the outcome. A failed extraction is recorded and returned as ErrExtraction.
func (s *Service) Extract(ctx context.Context, id int) (ProfileRecord, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return ProfileRecord{}, err
	}
	rec := ProfileRecord{
		Status:    ProfileStatusPending,
		Model:     s.modelName,
		Profile:   emptyProfile(),
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.SetProfile(ctx, id, rec); err != nil {
		return ProfileRecord{}, err
	}

	p, err := s.askProfile(ctx, doc.Text)
	rec.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err != nil {
		rec.Status = ProfileStatusFailed
		rec.Error = err.Error()
		s.log.Warn(ctx, "profile extraction failed", "id", id, "error", err)
		if serr := s.repo.SetProfile(ctx, id, rec); serr != nil {
			return rec, serr
		}
		return rec, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	rec.Status = ProfileStatusOK
	rec.Profile = p
	if err := s.repo.SetProfile(ctx, id, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *Service) askProfile(ctx context.Context, text string) (Profile, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Profile{}, ErrEmpty
	}
	if s.model == nil {
		return Profile{}, fmt.Errorf("no chat model configured (set OPENROUTER_API_KEY)")
	}
	if r := []rune(text); len(r) > maxPromptChars {
		text = string(r[:maxPromptChars])
	}
	raw, err := s.model.Ask(ctx, systemPrompt, fmt.Sprintf(userPromptShape, text))
	if err != nil {
		return Profile{}, err
	}
	return decodeProfile(raw)
}

// decodeProfile accepts a bare JSON object or one wrapped in prose or code fences.
func decodeProfile(raw string) (Profile, error) {
	raw = strings.TrimSpace(raw)
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
		if i < 0 || j <= i {
			return Profile{}, fmt.Errorf("model reply is not JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(raw[i:j+1]), &p); err != nil {
			return Profile{}, fmt.Errorf("model reply is not JSON: %w", err)
		}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []ExperienceItem{}
	}
	if p.Education == nil {
		p.Education = []EducationItem{}
	}
	return p, nil
}

// Import merges a successfully extracted profile into the CV. Entries already
// present are skipped, and the CV summary is only filled when empty.
func (s *Service) Import(ctx context.Context, id int) (ImportResult, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return ImportResult{}, err
	}
	if doc.Profile == nil || doc.Profile.Status != ProfileStatusOK {
		return ImportResult{}, ErrNoProfile
	}
	p := doc.Profile.Profile

	var res ImportResult
	_, err = s.cv.Merge(ctx, func(c *cv.CV) error {
		res = ImportResult{}
		if strings.TrimSpace(c.Profil) == "" && strings.TrimSpace(p.Summary) != "" {
			c.Profil = strings.TrimSpace(p.Summary)
			res.Profil = true
		}
		for _, e := range p.Experience {
			if strings.TrimSpace(e.Role) == "" || hasExperience(c.Experiences, e) {
				continue
			}
			c.Experiences = append(c.Experiences, cv.Experience{
				ID:          nextID(c.Experiences, func(x cv.Experience) int { return x.ID }),
				Poste:       strings.TrimSpace(e.Role),
				Entreprise:  strings.TrimSpace(e.Company),
				Debut:       e.Start,
				Fin:         e.End,
				Periode:     period(e.Start, e.End),
				Description: strings.TrimSpace(e.Description),
				Ordre:       len(c.Experiences) + 1,
			})
			res.Experiences++
		}
		for _, f := range p.Education {
			if strings.TrimSpace(f.Institution) == "" || hasFormation(c.Formation, f) {
				continue
			}
			c.Formation = append(c.Formation, cv.Formation{
				ID:            nextID(c.Formation, func(x cv.Formation) int { return x.ID }),
				Etablissement: strings.TrimSpace(f.Institution),
				Localisation:  strings.TrimSpace(f.Location),
				Periode:       period(f.Start, f.End),
				Diplome:       strings.TrimSpace(f.Degree),
				Ordre:         len(c.Formation) + 1,
			})
			res.Formations++
		}
		for _, skill := range p.Skills {
			if strings.TrimSpace(skill) == "" || hasCompetence(c.Competences, skill) {
				continue
			}
			c.Competences = append(c.Competences, cv.Competence{
				ID:     nextID(c.Competences, func(x cv.Competence) int { return x.ID }),
				Nom:    strings.TrimSpace(skill),
				Niveau: importedNiveau,
			})
			res.Competences++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	s.log.Info(ctx, "profile imported into cv", "id", id,
		"experiences", res.Experiences, "formations", res.Formations, "competences", res.Competences)
	return res, nil
}

func emptyProfile() Profile {
	return Profile{Skills: []string{}, Experience: []ExperienceItem{}, Education: []EducationItem{}}
}

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "" || strings.EqualFold(end, "present"):
		return start + " - aujourd'hui"
	case start == "":
		return end
	}
	return start + " - " + end
}

func hasExperience(list []cv.Experience, e ExperienceItem) bool {
	for _, x := range list {
		if nlp.NormalizeText(x.Poste) == nlp.NormalizeText(e.Role) &&
			nlp.NormalizeText(x.Entreprise) == nlp.NormalizeText(e.Company) {
			return true
		}
	}
	return false
}

func hasFormation(list []cv.Formation, f EducationItem) bool {
	for _, x := range list {
		if nlp.NormalizeText(x.Etablissement) == nlp.NormalizeText(f.Institution) &&
			nlp.NormalizeText(x.Diplome) == nlp.NormalizeText(f.Degree) {
			return true
		}
	}
	return false
}

func hasCompetence(list []cv.Competence, skill string) bool {
	for _, x := range list {
		if nlp.SameSkill(x.Nom, skill) {
			return true
		}
	}
	return false
}

func nextID[T any](list []T, id func(T) int) int {
	ids := make([]int, 0, len(list))
	for _, x := range list {
		ids = append(ids, id(x))
	}
	return recordstore.NextID(ids)
}
