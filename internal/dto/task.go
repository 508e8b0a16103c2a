package dto

import (
	"github.com/taskflow/taskflow-api/internal/models"
)

// TaskDTO represents a task in API responses. The owner appears as the
// read-only "gestionnaire" field carrying the username.
type TaskDTO struct {
	ID           uint64 `json:"id"`
	Text         string `json:"task"`
	Done         bool   `json:"done"`
	Gestionnaire string `json:"gestionnaire"`
}

// TaskListResponse represents a paginated list of tasks: total count,
// absolute next/previous page URLs (null at the edges) and one page of
// results.
type TaskListResponse struct {
	Count    int64     `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []TaskDTO `json:"results"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Text:         task.Text,
		Done:         task.Done,
		Gestionnaire: task.Owner.Username,
	}
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, count int64, next, previous *string) TaskListResponse {
	results := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		results[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	}
}
