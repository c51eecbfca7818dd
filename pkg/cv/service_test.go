package cv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

func newService(t *testing.T) (*cv.Service, *recordstore.Store) {
	t.Helper()
	backend, err := recordstore.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	store := recordstore.New(backend)
	clock := func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return cv.NewService(store, cv.WithClock(clock)), store
}

func TestDefaultSeed(t *testing.T) {
	seed := cv.DefaultSeed()
	assert.NotEmpty(t, seed.Nom)
	assert.NotEmpty(t, seed.Experiences)
	assert.NotEmpty(t, seed.Langues)
}

func TestGet_CreatesFromSeed(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, cv.Collection)
	require.NoError(t, err)
	assert.False(t, exists)

	c, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, cv.DefaultSeed().Nom, c.Nom)

	exists, err = store.Exists(ctx, cv.Collection)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdate_Whitelist(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	before, err := svc.Get(ctx)
	require.NoError(t, err)

	titre := "  Architecte logiciel "
	c, err := svc.Update(ctx, cv.Patch{
		Titre:   &titre,
		Reseaux: &cv.Reseaux{Github: "https://github.com/camille"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Architecte logiciel", c.Titre)
	assert.Equal(t, before.Nom, c.Nom)
	assert.Equal(t, "https://github.com/camille", c.Reseaux.Github)
	assert.Equal(t, "2026-03-01T10:00:00Z", c.UpdatedAt)
	assert.Len(t, c.Experiences, len(before.Experiences))

	empty := " "
	_, err = svc.Update(ctx, cv.Patch{Nom: &empty})
	assert.ErrorIs(t, err, cv.ErrValidation)

	_, err = svc.Update(ctx, cv.Patch{Langues: &[]cv.Langue{{Nom: "Espagnol"}}})
	assert.ErrorIs(t, err, cv.ErrValidation)
}

func TestExperiences(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	seeded := len(cv.DefaultSeed().Experiences)

	_, err := svc.AddExperience(ctx, cv.Experience{Entreprise: "Nowhere"})
	require.ErrorIs(t, err, cv.ErrValidation)

	e, err := svc.AddExperience(ctx, cv.Experience{Poste: "Stagiaire", Ordre: 0})
	require.NoError(t, err)
	assert.Equal(t, seeded+1, e.ID)

	c, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, c.Experiences, seeded+1)
	assert.Equal(t, "Stagiaire", c.Experiences[0].Poste, "ordre 0 sorts first")

	require.NoError(t, svc.DeleteExperience(ctx, e.ID))
	assert.ErrorIs(t, svc.DeleteExperience(ctx, e.ID), cv.ErrNotFound)

	require.NoError(t, svc.DeleteExperience(ctx, 1))
	next, err := svc.AddExperience(ctx, cv.Experience{Poste: "Consultante"})
	require.NoError(t, err)
	assert.Equal(t, seeded+1, next.ID, "lower freed ids are not reused")
}

func TestSections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddFormation(ctx, cv.Formation{Diplome: "BTS"})
	assert.ErrorIs(t, err, cv.ErrValidation)
	f, err := svc.AddFormation(ctx, cv.Formation{Etablissement: "Lycée du Parc", Ordre: 9})
	require.NoError(t, err)

	_, err = svc.AddCompetence(ctx, cv.Competence{Nom: "Rust"})
	assert.ErrorIs(t, err, cv.ErrValidation)
	comp, err := svc.AddCompetence(ctx, cv.Competence{Nom: "Rust", Niveau: "Débutant"})
	require.NoError(t, err)

	_, err = svc.AddLoisir(ctx, cv.Loisir{Details: "sans nom"})
	assert.ErrorIs(t, err, cv.ErrValidation)
	l, err := svc.AddLoisir(ctx, cv.Loisir{Nom: "Escalade"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	seed := cv.DefaultSeed()
	assert.Equal(t, len(seed.Formation)+1, stats.Formations)
	assert.Equal(t, len(seed.Competences)+1, stats.Competences)
	assert.Equal(t, len(seed.Loisirs)+1, stats.Loisirs)

	require.NoError(t, svc.DeleteFormation(ctx, f.ID))
	require.NoError(t, svc.DeleteCompetence(ctx, comp.ID))
	require.NoError(t, svc.DeleteLoisir(ctx, l.ID))
	assert.ErrorIs(t, svc.DeleteLoisir(ctx, 999), cv.ErrNotFound)
}

func TestReset(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.AddLoisir(ctx, cv.Loisir{Nom: "Escalade"})
	require.NoError(t, err)

	c, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Len(t, c.Loisirs, len(cv.DefaultSeed().Loisirs))
}

func TestGet_Corrupt(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	require.NoError(t, store.Backend().Save(ctx, cv.Collection, []byte("{not json")))

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, recordstore.ErrCorrupt)
}
