package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
	"github.com/bazaarhq/bazaar-backend/pkg/enums"
)

// Profile is the public projection of a user account.
type Profile struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Phone       *string          `json:"phone,omitempty"`
	Gender      enums.Gender     `json:"gender,omitempty"`
	Role        enums.Role       `json:"role"`
	Status      enums.UserStatus `json:"status"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ProfileFromModel maps the persisted record into its public form.
func ProfileFromModel(user *models.User) Profile {
	return Profile{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		Gender:      user.Gender,
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female unspecified"`
}
