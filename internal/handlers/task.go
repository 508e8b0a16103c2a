package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/services"
	"github.com/taskflow/taskflow-api/internal/utils"
)

// TaskHandler coordinates task CRUD HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns one page of the current user's tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(services.ListTasksInput{
		OwnerID:  userID,
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	next := utils.PageURL(c, params.Page+1, total, params.Limit)
	previous := utils.PageURL(c, params.Page-1, total, params.Limit)

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, total, next, previous))
}

// CreateTask creates a new task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Text string `json:"task" binding:"required"`
		Done *bool  `json:"done"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := fieldErrors(err); details != nil {
			apierrors.BadRequestWithDetails(c, "Validation failed", details)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	done := req.Done != nil && *req.Done
	task, err := h.taskService.CreateTask(userID, req.Text, done)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns one of the current user's tasks.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates one of the current user's tasks. PUT requires the task
// text; PATCH applies whichever fields are present.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Text *string `json:"task"`
		Done *bool   `json:"done"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if c.Request.Method == http.MethodPut && req.Text == nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", map[string]string{
			"task": "This field is required.",
		})
		return
	}

	task, err := h.taskService.UpdateTask(userID, taskID, services.UpdateTaskInput{
		Text: req.Text,
		Done: req.Done,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes one of the current user's tasks.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// taskRequestIDs resolves the authenticated user and the :id route
// parameter. A non-numeric ID is reported as not found, the same as an ID
// that does not resolve to one of the user's tasks.
func taskRequestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return 0, 0, false
	}

	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		// Not-owned tasks are reported as missing so their existence
		// never leaks to other users.
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskTextEmpty):
		apierrors.BadRequestWithDetails(c, "Validation failed", map[string]string{
			"task": "This field may not be blank.",
		})
	case errors.Is(err, services.ErrTaskTextTooLong):
		apierrors.BadRequestWithDetails(c, "Validation failed", map[string]string{
			"task": "Ensure this field has no more than 200 characters.",
		})
	default:
		apierrors.InternalError(c, "")
	}
}
