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

// MemberInput is the boundary representation of a team member.
type MemberInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

// MemberService manages the assignee directory.
type MemberService struct {
	members  *repository.MemberRepository
	tasks    *repository.TaskRepository
	validate *validator.Validate
}

func NewMemberService(members *repository.MemberRepository, tasks *repository.TaskRepository) *MemberService {
	return &MemberService{members: members, tasks: tasks, validate: validator.New()}
}

func (s *MemberService) Create(ctx context.Context, input MemberInput) (*model.TeamMember, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.members.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := model.TeamMember{Name: input.Name, Email: input.Email, Role: input.Role}
	if err := s.members.Create(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *MemberService) Update(ctx context.Context, id uint, input MemberInput) (*model.TeamMember, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Name = input.Name
	member.Email = input.Email
	member.Role = input.Role
	if err := s.members.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) List(ctx context.Context) ([]model.TeamMember, error) {
	return s.members.ListAll(ctx)
}

func (s *MemberService) Get(ctx context.Context, id uint) (*model.TeamMember, error) {
	return s.members.FindByID(ctx, id)
}

// Delete removes a member after unassigning their tasks, so tasks keep
// cycling with no assignee instead of pointing at a dead row.
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	if _, err := s.members.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.UnassignMember(ctx, id); err != nil {
		return err
	}
	return s.members.Delete(ctx, id)
}
