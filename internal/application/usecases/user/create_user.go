// Package user contains use cases for onboarding and reading users.
package user

import (
	"context"
	"fmt"

	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/events"
)

// CreateUserUseCase onboards a new platform user.
//
// CreateUser always creates a RoleUser; the SYSTEM/treasury user is seeded
// once at bootstrap (cmd/seed), never through this use case.
type CreateUserUseCase struct {
	userRepo       ports.UserRepository
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
}

// NewCreateUserUseCase creates a new use case.
func NewCreateUserUseCase(
	userRepo ports.UserRepository,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		uow:            uow,
	}
}

// Execute onboards the user.
func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd dtos.CreateUserCommand) (*dtos.UserCreatedDTO, error) {
	var result *dtos.UserCreatedDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		exists, err := uc.userRepo.ExistsByEmail(txCtx, cmd.Email)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists {
			return errors.NewBusinessRuleViolation(
				"EMAIL_ALREADY_EXISTS",
				fmt.Sprintf("user with email %s already exists", cmd.Email),
				map[string]interface{}{"email": cmd.Email},
			)
		}

		user, err := entities.NewUser(cmd.Email, cmd.FullName, entities.RoleUser)
		if err != nil {
			return fmt.Errorf("create user entity: %w", err)
		}

		if err := uc.userRepo.Save(txCtx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		event := events.NewUserCreated(user.ID(), user.Email(), user.FullName())
		if err := uc.eventPublisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("publish UserCreated event: %w", err)
		}

		result = &dtos.UserCreatedDTO{
			User:    dtos.ToUserDTO(user),
			Message: "User created successfully.",
		}

		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
