package records

import (
	"context"

	"github.com/cvfolio/cvfolio/pkg/product"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

const ProductsCollection = "products"

// ProductRepository implements product.Repository with the generic record operations.
type ProductRepository struct {
	store *recordstore.Store
}

func NewProductRepository(store *recordstore.Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, p product.Product) (product.Product, error) {
	rec, err := recordstore.Encode(p)
	if err != nil {
		return product.Product{}, err
	}
	delete(rec, "id")
	delete(rec, "updatedAt")
	stored, err := r.store.Add(ctx, ProductsCollection, rec)
	if err != nil {
		return product.Product{}, err
	}
	return decodeProduct(stored)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (product.Product, error) {
	rec, err := r.store.FindByID(ctx, ProductsCollection, id)
	if err != nil {
		return product.Product{}, err
	}
	return decodeProduct(rec)
}

func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	all, err := r.store.FindAll(ctx, ProductsCollection)
	if err != nil {
		return nil, err
	}
	return recordstore.DecodeAll[product.Product](all)
}

func (r *ProductRepository) Update(ctx context.Context, id int, p product.Product) (product.Product, error) {
	rec, err := r.store.Update(ctx, ProductsCollection, id, recordstore.Record{
		"nom":       p.Nom,
		"prix":      p.Prix,
		"stock":     p.Stock,
		"updatedAt": p.UpdatedAt,
	})
	if err != nil {
		return product.Product{}, err
	}
	return decodeProduct(rec)
}

func (r *ProductRepository) Delete(ctx context.Context, id int) (product.Product, error) {
	rec, err := r.store.Delete(ctx, ProductsCollection, id)
	if err != nil {
		return product.Product{}, err
	}
	return decodeProduct(rec)
}

func decodeProduct(rec recordstore.Record) (product.Product, error) {
	if rec == nil {
		return product.Product{}, product.ErrNotFound
	}
	var p product.Product
	if err := recordstore.Decode(rec, &p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}
