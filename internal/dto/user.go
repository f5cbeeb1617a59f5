package dto

import (
	"github.com/taskdesk/taskdesk-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ProfileDTO represents a profile in API responses
type ProfileDTO struct {
	Role            models.Role `json:"role"`
	AssignedAdminID *uint64     `json:"assigned_admin_id"`
	AssignedAdmin   *UserDTO    `json:"assigned_admin,omitempty"`
}

// AccountDTO represents a user together with their profile
type AccountDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Profile  *ProfileDTO `json:"profile,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToAccountDTO converts a User model with profile to AccountDTO
func ToAccountDTO(user models.User) AccountDTO {
	dto := AccountDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	if user.Profile != nil {
		profile := &ProfileDTO{
			Role:            user.Profile.Role,
			AssignedAdminID: user.Profile.AssignedAdminID,
		}
		if user.Profile.AssignedAdmin != nil {
			admin := ToUserDTO(*user.Profile.AssignedAdmin)
			profile.AssignedAdmin = &admin
		}
		dto.Profile = profile
	}

	return dto
}

// ToAccountDTOs converts a slice of users to AccountDTOs
func ToAccountDTOs(users []models.User) []AccountDTO {
	dtos := make([]AccountDTO, len(users))
	for i, user := range users {
		dtos[i] = ToAccountDTO(user)
	}
	return dtos
}
