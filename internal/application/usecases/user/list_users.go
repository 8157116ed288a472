package user

import (
	"context"
	"fmt"

	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
)

// ListUsersUseCase returns a paginated user list.
type ListUsersUseCase struct {
	userRepo ports.UserRepository
}

// NewListUsersUseCase creates a new use case.
func NewListUsersUseCase(userRepo ports.UserRepository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

// Execute returns the paginated user list.
func (uc *ListUsersUseCase) Execute(ctx context.Context, query dtos.ListUsersQuery) (*dtos.UserListDTO, error) {
	users, err := uc.userRepo.List(ctx, query.Offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &dtos.UserListDTO{
		Users:      dtos.ToUserDTOList(users),
		TotalCount: len(users),
		Offset:     query.Offset,
		Limit:      query.Limit,
	}, nil
}
