package user

import (
	"context"
	"encoding/json"
	"time"
)

type User struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Name         *string         `json:"name"`
	Bio          *string         `json:"bio"`
	Headline     *string         `json:"headline"`
	Photo        *string         `json:"photo"`
	Interests    json.RawMessage `json:"interests"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// UpdateFields is a partial profile update. Nil fields keep their stored value.
// The password is never part of it.
type UpdateFields struct {
	Name      *string
	Bio       *string
	Headline  *string
	Photo     *string
	Interests json.RawMessage
}

func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil && f.Bio == nil && f.Headline == nil && f.Photo == nil && f.Interests == nil
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*User, error)
	Delete(ctx context.Context, id int64) error
	ListExcluding(ctx context.Context, email string, limit, offset int) ([]*User, error)
}
