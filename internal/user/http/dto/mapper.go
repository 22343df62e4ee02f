// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"github.com/banksec/apiguard/internal/user/domain"
	"github.com/banksec/apiguard/internal/user/usecase"
)

// ToRegisterUserInput converts a RegisterUserRequest DTO to a RegisterUserInput use case input
func ToRegisterUserInput(req RegisterUserRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToUserResponse converts a domain User model to a UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToListUsersResponse converts a slice of domain users to a ListUsersResponse DTO
func ToListUsersResponse(users []*domain.User) ListUsersResponse {
	response := ListUsersResponse{
		Users: make([]UserResponse, 0, len(users)),
	}
	for _, user := range users {
		response.Users = append(response.Users, ToUserResponse(user))
	}
	return response
}
