package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/khoahotran/profile-hub/internal/domain/user"
)

type RegisterRequest struct {
	Name     *string `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	// checked by the use case after the duplicate-email check
	Password string  `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest binds both JSON and multipart bodies. In multipart form
// interests arrives as a JSON-encoded text field.
type UpdateProfileRequest struct {
	Email     string          `json:"email" form:"email" binding:"required"`
	Name      *string         `json:"name" form:"name"`
	Bio       *string         `json:"bio" form:"bio"`
	Headline  *string         `json:"headline" form:"headline"`
	Interests json.RawMessage `json:"interests" form:"-"`
}

type UserDTO struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Name      *string         `json:"name"`
	Bio       *string         `json:"bio"`
	Headline  *string         `json:"headline"`
	Photo     *string         `json:"photo"`
	Interests json.RawMessage `json:"interests"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func ToUserDTO(u *user.User, baseURL string) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		Headline:  u.Headline,
		Photo:     ExpandPhotoURL(baseURL, u.Photo),
		Interests: u.Interests,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserDTOs(users []*user.User, baseURL string) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u, baseURL)
	}
	return dtos
}

// ExpandPhotoURL turns a stored relative path into a public URL. Absolute URLs
// from remote storage pass through.
func ExpandPhotoURL(baseURL string, photo *string) *string {
	if photo == nil || *photo == "" {
		return photo
	}
	if strings.HasPrefix(*photo, "http://") || strings.HasPrefix(*photo, "https://") {
		return photo
	}
	path := strings.TrimLeft(strings.ReplaceAll(*photo, `\`, "/"), "/")
	expanded := strings.TrimRight(baseURL, "/") + "/" + path
	return &expanded
}
