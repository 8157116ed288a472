// Package dtos defines the Data Transfer Objects used between layers.
//
// Why DTOs instead of domain entities directly?
// 1. separation of concerns: domain entities evolve independently of the API
// 2. the API gets a flatter, JSON-friendly representation
// 3. different API versions can use different DTOs
//
// Pattern: Data Transfer Object
package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// CreateUserCommand requests onboarding of a new user.
type CreateUserCommand struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetUserQuery requests a user by ID.
type GetUserQuery struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListUsersQuery requests a paginated user list.
type ListUsersQuery struct {
	Offset int `json:"offset" validate:"min=0"`
	Limit  int `json:"limit" validate:"min=1,max=100"`
}

// ============================================
// Response DTOs
// ============================================

// UserDTO is the API representation of a user.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"` // "USER" or "SYSTEM"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListDTO is the result of a paginated user list query.
type UserListDTO struct {
	Users      []UserDTO `json:"users"`
	TotalCount int       `json:"total_count"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

// UserCreatedDTO is the result of creating a user.
type UserCreatedDTO struct {
	User    UserDTO `json:"user"`
	Message string  `json:"message,omitempty"`
}
