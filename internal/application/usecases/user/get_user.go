package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// GetUserUseCase fetches a user by ID.
type GetUserUseCase struct {
	userRepo ports.UserRepository
}

// NewGetUserUseCase creates a new use case.
func NewGetUserUseCase(userRepo ports.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo}
}

// Execute returns the user for the given ID.
func (uc *GetUserUseCase) Execute(ctx context.Context, query dtos.GetUserQuery) (*dtos.UserDTO, error) {
	userID, err := uuid.Parse(query.UserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID"}
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewDomainError("USER_NOT_FOUND", "user not found", err)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	result := dtos.ToUserDTO(user)
	return &result, nil
}
