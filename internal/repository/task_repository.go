package repository

import (
	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByOwnerAndID finds a task by ID among the owner's tasks
func (r *GormTaskRepository) FindByOwnerAndID(ownerID, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Owner").
		Where("owner_id = ?", ownerID).
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner retrieves the owner's tasks in ascending ID order
func (r *GormTaskRepository) ListByOwner(ownerID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id ASC").
		Scopes(database.Paginate(params)).
		Preload("Owner").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// DeleteByOwnerAndID deletes a task by ID among the owner's tasks
func (r *GormTaskRepository) DeleteByOwnerAndID(ownerID, id uint64) error {
	result := r.db.Where("owner_id = ?", ownerID).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
