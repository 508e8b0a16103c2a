package repository

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/utils"
)

// TaskRepository defines the interface for task data access. Every lookup is
// scoped to the owning user: a task that exists but belongs to someone else
// behaves exactly like a task that does not exist.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwnerAndID finds a task by ID among the owner's tasks
	FindByOwnerAndID(ownerID, id uint64) (*models.Task, error)

	// ListByOwner retrieves the owner's tasks in ascending ID order,
	// returning the page and the total count
	ListByOwner(ownerID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// DeleteByOwnerAndID deletes a task by ID among the owner's tasks
	DeleteByOwnerAndID(ownerID, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// RefreshTokenRepository defines the interface for refresh token state.
type RefreshTokenRepository interface {
	// Create records a newly issued refresh token as active
	Create(token *models.RefreshToken) error

	// Consume atomically revokes the active token with the given JTI at
	// the given time. It fails with ErrTokenConsumed when the token was
	// already revoked and gorm.ErrRecordNotFound when no such token exists,
	// so a concurrent double redemption cannot succeed twice.
	Consume(jti string, now time.Time) (*models.RefreshToken, error)
}
