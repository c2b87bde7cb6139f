package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"recon-tracker/internal/model"
	"recon-tracker/internal/repository"
)

// UserInput is the boundary representation of a login account.
type UserInput struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"omitempty,min=4"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

// UserService manages login accounts.
type UserService struct {
	users    *repository.UserRepository
	validate *validator.Validate
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users, validate: validator.New()}
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := model.User{Username: input.Username, Name: input.Name, Role: input.Role}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update edits name, role and optionally the password; the username is
// fixed at creation.
func (s *UserService) Update(ctx context.Context, id uint, input UserInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = input.Name
	user.Role = input.Role
	if input.Password != "" {
		if err := user.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}

// Delete removes an account. Deleting your own account is rejected.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", ErrPermissionDenied)
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// ChangePassword verifies the old password before setting the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}
	if len(newPassword) < 4 {
		return fmt.Errorf("%w: password must be at least 4 characters", ErrValidation)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}
