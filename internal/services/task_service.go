package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskTextEmpty   = errors.New("task text cannot be empty")
	ErrTaskTextTooLong = errors.New("task text cannot exceed 200 characters")
)

// TaskService handles task business logic. Every operation is scoped to the
// acting user; a task owned by someone else is indistinguishable from a
// missing one.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents pagination for listing tasks
type ListTasksInput struct {
	OwnerID  uint64
	Page     int
	PageSize int
}

// UpdateTaskInput represents input for updating a task; nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Text *string
	Done *bool
}

// ListTasks returns one page of the user's tasks in creation (ID) order.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = constants.PageSize
	}
	page := input.Page
	if page < 1 {
		page = 1
	}

	params := utils.PaginationParams{
		Page:   page,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	tasks, total, err := s.taskRepo.ListByOwner(input.OwnerID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns one of the user's tasks.
func (s *TaskService) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwnerAndID(ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task owned by the user.
func (s *TaskService) CreateTask(ownerID uint64, text string, done bool) (*models.Task, error) {
	if err := validateTaskText(text); err != nil {
		return nil, err
	}

	task := &models.Task{
		Text:    text,
		Done:    done,
		OwnerID: ownerID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Reload so the owner relation is populated for serialization.
	return s.GetTask(ownerID, task.ID)
}

// UpdateTask applies the provided fields to one of the user's tasks.
func (s *TaskService) UpdateTask(ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Text != nil {
		if err := validateTaskText(*input.Text); err != nil {
			return nil, err
		}
		task.Text = *input.Text
	}
	if input.Done != nil {
		task.Done = *input.Done
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes one of the user's tasks.
func (s *TaskService) DeleteTask(ownerID, taskID uint64) error {
	if err := s.taskRepo.DeleteByOwnerAndID(ownerID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func validateTaskText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTaskTextEmpty
	}
	if utf8.RuneCountInString(text) > constants.MaxTaskTextLength {
		return ErrTaskTextTooLong
	}
	return nil
}
