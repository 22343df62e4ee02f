// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"time"
)

// UserResponse represents the API response for a user.
// It excludes the password hash and role flags from the external contract.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse wraps a collection of users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}
