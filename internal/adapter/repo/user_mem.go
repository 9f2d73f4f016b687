package repo

import (
	"context"
	"sync"

	"github.com/azulcreative/server/internal/domain"
)

// UserRepositoryMem is an in-memory domain.UserStore for local-only
// deployments without a database. Accounts live for the process lifetime.
type UserRepositoryMem struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepositoryMem creates an empty in-memory store.
func NewUserRepositoryMem() *UserRepositoryMem {
	return &UserRepositoryMem{users: map[string]domain.User{}}
}

func (r *UserRepositoryMem) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepositoryMem) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepositoryMem) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepositoryMem) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *UserRepositoryMem) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	r.users[id] = u
	return nil
}

func (r *UserRepositoryMem) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *UserRepositoryMem) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
