package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

var (
	_ model.UserStore    = (*UserRepository)(nil)
	_ model.ProfileStore = (*ProfileRepository)(nil)
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) CreateWithProfile(_ context.Context, user model.User, role model.Role) (model.User, model.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return model.User{}, model.Profile{}, model.ErrAlreadyExists
		}
	}
	if _, ok := r.db.users[user.ID]; ok {
		return model.User{}, model.Profile{}, model.ErrAlreadyExists
	}

	profile := model.Profile{ID: user.ID, Email: user.Email, Role: role, CreatedAt: user.CreatedAt}
	r.db.users[user.ID] = user
	r.db.profiles[user.ID] = profile

	return user, profile, nil
}

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(_ context.Context, id uuid.UUID) (model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.profiles[id]
	if !ok {
		return model.Profile{}, model.ErrNotFound
	}
	return p, nil
}
