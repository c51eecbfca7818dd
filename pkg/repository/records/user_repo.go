// Package records implements domain repositories on top of the record store.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cvfolio/cvfolio/pkg/auth"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

const UsersCollection = "users"

// UserRepository implements auth.UserRepository over the "users" collection.
type UserRepository struct {
	store *recordstore.Store
}

func NewUserRepository(store *recordstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create checks email uniqueness and assigns the id in one locked cycle.
func (r *UserRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	user.Email = strings.ToLower(user.Email)
	err := r.store.Mutate(ctx, UsersCollection, []recordstore.Record{}, func(raw json.RawMessage) (any, error) {
		users, err := decodeUsers(raw)
		if err != nil {
			return nil, err
		}
		ids := make([]int, 0, len(users))
		for _, u := range users {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, auth.ErrUserAlreadyExists
			}
			ids = append(ids, u.ID)
		}
		user.ID = recordstore.NextID(ids)
		return append(users, user), nil
	})
	if err != nil {
		return auth.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (auth.User, error) {
	rec, err := r.store.FindByID(ctx, UsersCollection, id)
	if err != nil {
		return auth.User{}, err
	}
	if rec == nil {
		return auth.User{}, auth.ErrNotFound
	}
	return decodeUser(rec)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	found, err := r.store.Search(ctx, UsersCollection, func(rec recordstore.Record) bool {
		e, _ := rec["email"].(string)
		return strings.EqualFold(e, email)
	})
	if err != nil {
		return auth.User{}, err
	}
	if len(found) == 0 {
		return auth.User{}, auth.ErrNotFound
	}
	return decodeUser(found[0])
}

func (r *UserRepository) List(ctx context.Context) ([]auth.User, error) {
	all, err := r.store.FindAll(ctx, UsersCollection)
	if err != nil {
		return nil, err
	}
	return recordstore.DecodeAll[auth.User](all)
}

// Update replaces the stored account, keeping its password hash and creation date.
func (r *UserRepository) Update(ctx context.Context, user auth.User) (auth.User, error) {
	var out auth.User
	err := r.store.Mutate(ctx, UsersCollection, []recordstore.Record{}, func(raw json.RawMessage) (any, error) {
		users, err := decodeUsers(raw)
		if err != nil {
			return nil, err
		}
		idx := -1
		for i, u := range users {
			if u.ID == user.ID {
				idx = i
			} else if strings.EqualFold(u.Email, user.Email) {
				return nil, auth.ErrUserAlreadyExists
			}
		}
		if idx < 0 {
			return nil, auth.ErrNotFound
		}
		stored := users[idx]
		stored.Nom = user.Nom
		stored.Prenom = user.Prenom
		stored.Email = strings.ToLower(user.Email)
		stored.UpdatedAt = user.UpdatedAt
		if user.PasswordHash != "" {
			stored.PasswordHash = user.PasswordHash
		}
		users[idx] = stored
		out = stored
		return users, nil
	})
	if err != nil {
		return auth.User{}, err
	}
	return out, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) (auth.User, error) {
	rec, err := r.store.Delete(ctx, UsersCollection, id)
	if err != nil {
		return auth.User{}, err
	}
	if rec == nil {
		return auth.User{}, auth.ErrNotFound
	}
	return decodeUser(rec)
}

func decodeUser(rec recordstore.Record) (auth.User, error) {
	var u auth.User
	if err := recordstore.Decode(rec, &u); err != nil {
		return auth.User{}, err
	}
	return u, nil
}

func decodeUsers(raw json.RawMessage) ([]auth.User, error) {
	var users []auth.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", recordstore.ErrCorrupt, UsersCollection, err)
	}
	return users, nil
}
