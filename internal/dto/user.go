package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/models"
)

// UserDTO is the public representation of a user.
type UserDTO struct {
	ID         uuid.UUID         `json:"id"`
	Username   string            `json:"username"`
	FullName   string            `json:"full_name"`
	GlobalRole models.GlobalRole `json:"global_role,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ToUserDTO converts a user to its public representation.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		GlobalRole: user.GlobalRole,
		CreatedAt:  user.CreatedAt,
	}
}
