// Package product is a small catalogue CRUD kept alongside the CV.
package product

import (
	"context"
	"strings"
	"time"

	"github.com/cvfolio/cvfolio/pkg/validation"
)

type Repository interface {
	Create(ctx context.Context, p Product) (Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int, p Product) (Product, error)
	Delete(ctx context.Context, id int) (Product, error)
}

type UseCase interface {
	Create(ctx context.Context, in Input) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int) (Product, error)
	Update(ctx context.Context, id int, in Input) (Product, error)
	Delete(ctx context.Context, id int) (Product, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) UseCase {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, in Input) (Product, error) {
	if err := validation.Struct(in, messages); err != nil {
		return Product{}, err
	}
	p := Product{CreatedAt: s.now().UTC().Format(time.RFC3339)}
	if err := apply(&p, in); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int, in Input) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if err := apply(&p, in); err != nil {
		return Product{}, err
	}
	p.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return s.repo.Update(ctx, id, p)
}

func (s *service) Delete(ctx context.Context, id int) (Product, error) {
	return s.repo.Delete(ctx, id)
}

// apply copies the non-nil fields of in onto p and validates the result.
func apply(p *Product, in Input) error {
	next := *p
	if in.Nom != nil {
		next.Nom = strings.TrimSpace(*in.Nom)
	}
	if in.Prix != nil {
		next.Prix = *in.Prix
	}
	if in.Stock != nil {
		next.Stock = *in.Stock
	}
	if err := validation.Struct(next, messages); err != nil {
		return err
	}
	*p = next
	return nil
}
