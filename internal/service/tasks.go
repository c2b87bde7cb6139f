package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
	"recon-tracker/internal/recurrence"
	"recon-tracker/internal/repository"
)

// TaskInput is the boundary representation of a task create/update. All
// validation happens here; the lifecycle engine assumes well-formed tasks.
type TaskInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Frequency    string `json:"frequency" validate:"required,oneof=Daily Weekly Monthly"`
	Priority     string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status       string `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Completed 'On Hold'"`
	SourceSystem string `json:"source_system"`
	TargetSystem string `json:"target_system"`
	AssignedTo   *uint  `json:"assigned_to"`
	DueDate      string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DueTime      string `json:"due_time" validate:"omitempty,datetime=15:04"`
}

// TaskService handles task CRUD with boundary validation and initial
// due-date computation.
type TaskService struct {
	tasks    *repository.TaskRepository
	validate *validator.Validate
	clk      clock.Clock
	log      *zap.SugaredLogger
}

func NewTaskService(tasks *repository.TaskRepository, clk clock.Clock, log *zap.SugaredLogger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		validate: validator.New(),
		clk:      clk,
		log:      log,
	}
}

func (s *TaskService) checkInput(input TaskInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.DueTime != "" && input.Frequency != model.FrequencyDaily {
		return fmt.Errorf("%w: due time is only valid for Daily tasks", ErrValidation)
	}
	return nil
}

func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, clock.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due date %q", ErrValidation, s)
	}
	return &t, nil
}

// Create builds a new Pending task. Daily and Weekly due dates are computed
// from today; a Monthly task keeps whatever date the caller supplied.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}
	supplied, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		Name:         input.Name,
		Description:  input.Description,
		Frequency:    input.Frequency,
		Priority:     input.Priority,
		Status:       model.StatusPending,
		SourceSystem: input.SourceSystem,
		TargetSystem: input.TargetSystem,
		AssignedTo:   input.AssignedTo,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	today := clock.Today(s.clk.Now())
	if due, computed := recurrence.InitialDue(input.Frequency, today); computed {
		task.DueDate = &due
	} else {
		task.DueDate = supplied
	}
	if input.Frequency == model.FrequencyDaily {
		task.DueTime = input.DueTime
		if task.DueTime == "" {
			task.DueTime = recurrence.DefaultDueTime
		}
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update is the admin edit path: every field including status and due date
// may be overridden, subject to value validation.
func (s *TaskService) Update(ctx context.Context, id uint, input TaskInput) (*model.Task, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}
	supplied, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Name = input.Name
	task.Description = input.Description
	task.Frequency = input.Frequency
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	task.SourceSystem = input.SourceSystem
	task.TargetSystem = input.TargetSystem
	task.AssignedTo = input.AssignedTo
	if supplied != nil {
		task.DueDate = supplied
	}
	if task.Frequency == model.FrequencyDaily {
		if input.DueTime != "" {
			task.DueTime = input.DueTime
		} else if task.DueTime == "" {
			task.DueTime = recurrence.DefaultDueTime
		}
	} else {
		task.DueTime = ""
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.Frequency != "" && !model.ValidFrequency(filter.Frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrValidation, filter.Frequency)
	}
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.tasks.Delete(ctx, id)
}
