// Package cv manages the portfolio CV, stored as a single document in the
// "cv" collection with its sections embedded as arrays.
package cv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

const Collection = "cv"

type Service struct {
	store *recordstore.Store
	seed  CV
	now   func() time.Time
}

type Option func(*Service)

// WithSeed replaces the bundled CV used for empty stores and resets.
func WithSeed(seed CV) Option {
	return func(s *Service) { s.seed = seed }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store *recordstore.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed.Nom == "" {
		s.seed = DefaultSeed()
	}
	return s
}

// Get returns the CV, creating it from the seed on first use.
func (s *Service) Get(ctx context.Context) (CV, error) {
	c, err := recordstore.ReadAs(ctx, s.store, Collection, s.seed)
	if err != nil {
		return CV{}, err
	}
	normalize(&c)
	return c, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	c, err := s.Get(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Experiences: len(c.Experiences),
		Formations:  len(c.Formation),
		Competences: len(c.Competences),
		Langues:     len(c.Langues),
		Loisirs:     len(c.Loisirs),
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

// Update applies the non-nil fields of p.
func (s *Service) Update(ctx context.Context, p Patch) (CV, error) {
	if p.Nom != nil && strings.TrimSpace(*p.Nom) == "" {
		return CV{}, fmt.Errorf("%w: le nom est requis", ErrValidation)
	}
	if p.Langues != nil {
		for _, l := range *p.Langues {
			if strings.TrimSpace(l.Nom) == "" || strings.TrimSpace(l.Niveau) == "" {
				return CV{}, fmt.Errorf("%w: nom et niveau requis pour chaque langue", ErrValidation)
			}
		}
	}
	return s.mutate(ctx, func(c *CV) error {
		set(&c.Nom, p.Nom)
		set(&c.Titre, p.Titre)
		set(&c.Photo, p.Photo)
		set(&c.Localisation, p.Localisation)
		set(&c.Email, p.Email)
		set(&c.Telephone, p.Telephone)
		set(&c.SiteWeb, p.SiteWeb)
		set(&c.Profil, p.Profil)
		if p.Langues != nil {
			c.Langues = append([]Langue{}, (*p.Langues)...)
		}
		if p.Reseaux != nil {
			c.Reseaux = *p.Reseaux
		}
		return nil
	})
}

// Reset overwrites the stored CV with the seed.
func (s *Service) Reset(ctx context.Context) (CV, error) {
	c := s.seed
	c.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.store.Reset(ctx, Collection, c); err != nil {
		return CV{}, err
	}
	return s.Get(ctx)
}

func (s *Service) AddExperience(ctx context.Context, e Experience) (Experience, error) {
	if strings.TrimSpace(e.Poste) == "" {
		return Experience{}, fmt.Errorf("%w: le poste est requis", ErrValidation)
	}
	_, err := s.mutate(ctx, func(c *CV) error {
		e.ID = recordstore.NextID(idsOf(c.Experiences, func(x Experience) int { return x.ID }))
		c.Experiences = append(c.Experiences, e)
		return nil
	})
	return e, err
}

func (s *Service) DeleteExperience(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, func(c *CV) error {
		var ok bool
		c.Experiences, ok = removeByID(c.Experiences, id, func(x Experience) int { return x.ID })
		return found(ok, "expérience")
	})
	return err
}

func (s *Service) AddFormation(ctx context.Context, f Formation) (Formation, error) {
	if strings.TrimSpace(f.Etablissement) == "" {
		return Formation{}, fmt.Errorf("%w: l'établissement est requis", ErrValidation)
	}
	_, err := s.mutate(ctx, func(c *CV) error {
		f.ID = recordstore.NextID(idsOf(c.Formation, func(x Formation) int { return x.ID }))
		c.Formation = append(c.Formation, f)
		return nil
	})
	return f, err
}

func (s *Service) DeleteFormation(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, func(c *CV) error {
		var ok bool
		c.Formation, ok = removeByID(c.Formation, id, func(x Formation) int { return x.ID })
		return found(ok, "formation")
	})
	return err
}

func (s *Service) AddCompetence(ctx context.Context, comp Competence) (Competence, error) {
	if strings.TrimSpace(comp.Nom) == "" || strings.TrimSpace(comp.Niveau) == "" {
		return Competence{}, fmt.Errorf("%w: nom et niveau requis", ErrValidation)
	}
	_, err := s.mutate(ctx, func(c *CV) error {
		comp.ID = recordstore.NextID(idsOf(c.Competences, func(x Competence) int { return x.ID }))
		c.Competences = append(c.Competences, comp)
		return nil
	})
	return comp, err
}

func (s *Service) DeleteCompetence(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, func(c *CV) error {
		var ok bool
		c.Competences, ok = removeByID(c.Competences, id, func(x Competence) int { return x.ID })
		return found(ok, "compétence")
	})
	return err
}

func (s *Service) AddLoisir(ctx context.Context, l Loisir) (Loisir, error) {
	if strings.TrimSpace(l.Nom) == "" {
		return Loisir{}, fmt.Errorf("%w: le nom est requis", ErrValidation)
	}
	_, err := s.mutate(ctx, func(c *CV) error {
		l.ID = recordstore.NextID(idsOf(c.Loisirs, func(x Loisir) int { return x.ID }))
		c.Loisirs = append(c.Loisirs, l)
		return nil
	})
	return l, err
}

func (s *Service) DeleteLoisir(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, func(c *CV) error {
		var ok bool
		c.Loisirs, ok = removeByID(c.Loisirs, id, func(x Loisir) int { return x.ID })
		return found(ok, "loisir")
	})
	return err
}

// Merge applies fn to the stored CV under the collection lock. It is used by
// imports that touch several sections at once.
func (s *Service) Merge(ctx context.Context, fn func(c *CV) error) (CV, error) {
	return s.mutate(ctx, fn)
}

func (s *Service) mutate(ctx context.Context, fn func(c *CV) error) (CV, error) {
	var out CV
	err := s.store.Mutate(ctx, Collection, s.seed, func(raw json.RawMessage) (any, error) {
		var c CV
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", recordstore.ErrCorrupt, Collection, err)
		}
		if err := fn(&c); err != nil {
			return nil, err
		}
		c.UpdatedAt = s.now().UTC().Format(time.RFC3339)
		out = c
		return c, nil
	})
	if err != nil {
		return CV{}, err
	}
	normalize(&out)
	return out, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func found(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return nil
}

func idsOf[T any](items []T, id func(T) int) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func removeByID[T any](items []T, target int, id func(T) int) ([]T, bool) {
	for i, it := range items {
		if id(it) == target {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

// normalize replaces nil sections with empty ones and orders them for display.
func normalize(c *CV) {
	if c.Experiences == nil {
		c.Experiences = []Experience{}
	}
	if c.Formation == nil {
		c.Formation = []Formation{}
	}
	if c.Competences == nil {
		c.Competences = []Competence{}
	}
	if c.Langues == nil {
		c.Langues = []Langue{}
	}
	if c.Loisirs == nil {
		c.Loisirs = []Loisir{}
	}
	sort.SliceStable(c.Experiences, func(i, j int) bool {
		return less(c.Experiences[i].Ordre, c.Experiences[i].ID, c.Experiences[j].Ordre, c.Experiences[j].ID)
	})
	sort.SliceStable(c.Formation, func(i, j int) bool {
		return less(c.Formation[i].Ordre, c.Formation[i].ID, c.Formation[j].Ordre, c.Formation[j].ID)
	})
	sort.SliceStable(c.Loisirs, func(i, j int) bool {
		return less(c.Loisirs[i].Ordre, c.Loisirs[i].ID, c.Loisirs[j].Ordre, c.Loisirs[j].ID)
	})
	sort.SliceStable(c.Competences, func(i, j int) bool { return c.Competences[i].ID < c.Competences[j].ID })
}

func less(ordreA, idA, ordreB, idB int) bool {
	if ordreA != ordreB {
		return ordreA < ordreB
	}
	return idA < idB
}
