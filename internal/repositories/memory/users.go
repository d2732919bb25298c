package memory

import (
	"context"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u models.User) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return repositories.ErrDuplicate
		}
		for _, other := range st.users {
			if fold(other.Username) == fold(u.Username) || fold(other.Email) == fold(u.Email) {
				return repositories.ErrDuplicate
			}
		}
		st.users[u.ID] = u
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var out models.User
	err := r.s.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = u
		return nil
	})
	return out, err
}

func (r userRepo) GetByLogin(ctx context.Context, login string) (models.User, error) {
	var out models.User
	err := r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if fold(u.Username) == fold(login) || fold(u.Email) == fold(login) {
				out = u
				return nil
			}
		}
		return repositories.ErrNotFound
	})
	return out, err
}
