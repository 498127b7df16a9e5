// Package usertest provides an in-memory user.Repository for tests.
package usertest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
)

type MemoryRepo struct {
	mu     sync.Mutex
	users  map[int64]*user.User
	nextID int64
	clock  time.Time

	// FailWith, when set, is returned by every call.
	FailWith error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[int64]*user.User),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (r *MemoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *MemoryRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *MemoryRepo) Create(_ context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, apperror.NewConflict("user", "email", u.Email)
		}
	}
	r.nextID++
	stored := clone(u)
	stored.ID = r.nextID
	stored.CreatedAt = r.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.users[stored.ID] = stored
	return clone(stored), nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, f user.UpdateFields) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	if f.Name != nil {
		u.Name = strPtr(*f.Name)
	}
	if f.Bio != nil {
		u.Bio = strPtr(*f.Bio)
	}
	if f.Headline != nil {
		u.Headline = strPtr(*f.Headline)
	}
	if f.Photo != nil {
		u.Photo = strPtr(*f.Photo)
	}
	if f.Interests != nil {
		u.Interests = append([]byte(nil), f.Interests...)
	}
	u.UpdatedAt = r.tick()
	return clone(u), nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	if _, ok := r.users[id]; !ok {
		return apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryRepo) ListExcluding(_ context.Context, email string, limit, offset int) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	if limit <= 0 || offset < 0 {
		return []*user.User{}, nil
	}
	all := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		if u.Email != email {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	out := make([]*user.User, 0)
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, clone(all[i]))
	}
	return out, nil
}

// Len reports how many users are stored.
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func clone(u *user.User) *user.User {
	c := *u
	if u.Interests != nil {
		c.Interests = append([]byte(nil), u.Interests...)
	}
	return &c
}

func strPtr(s string) *string { return &s }
