package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/product"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/repository/records"
	"github.com/cvfolio/cvfolio/pkg/validation"
)

func ptr[T any](v T) *T { return &v }

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	svc := product.NewService(records.NewProductRepository(recordstore.New(recordstore.NewMemoryBackend())))

	_, err := svc.Create(ctx, product.Input{Nom: ptr("Stylo")})
	require.ErrorIs(t, err, product.ErrValidation)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"prix": "Le prix est requis", "stock": "Le stock est requis"}, verr.Fields)

	_, err = svc.Create(ctx, product.Input{Nom: ptr("Stylo"), Prix: ptr(-1.0), Stock: ptr(3)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"prix": "Le prix doit être positif"}, verr.Fields)
	_, err = svc.Create(ctx, product.Input{Nom: ptr("  "), Prix: ptr(0.0), Stock: ptr(0)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"nom": "Le nom est requis"}, verr.Fields)

	p, err := svc.Create(ctx, product.Input{Nom: ptr("Stylo"), Prix: ptr(2.5), Stock: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.NotEmpty(t, p.CreatedAt)

	up, err := svc.Update(ctx, p.ID, product.Input{Stock: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, up.Stock)
	assert.Equal(t, "Stylo", up.Nom)
	assert.Equal(t, 2.5, up.Prix)
	assert.Equal(t, p.CreatedAt, up.CreatedAt)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)
	_, err = svc.Update(ctx, p.ID, product.Input{})
	assert.ErrorIs(t, err, product.ErrNotFound)
}
