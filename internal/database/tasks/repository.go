// Package tasks provides database operations for task records.
//
// Ownership is not enforced here: callers compare Task.OwnerID with the
// authenticated subject before exposing or mutating a record.
//
// # Usage
//
//	repo := tasks.NewRepository(db)
//	list, err := repo.ListTasksByOwner(userID)
package tasks

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/entities"
)

// Repository handles all task database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tasks repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTask inserts a new task.
func (r *Repository) CreateTask(task *entities.Task) error {
	return database.TranslateError(r.db.Create(task).Error)
}

// ListTasksByOwner returns all live tasks of a user, oldest first.
func (r *Repository) ListTasksByOwner(ownerID uint) ([]entities.Task, error) {
	tasks := []entities.Task{}
	err := r.db.Where("owner_id = ?", ownerID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// GetTaskByID retrieves a live task by ID.
func (r *Repository) GetTaskByID(id uint) (*entities.Task, error) {
	var task entities.Task
	err := r.db.First(&task, id).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &task, nil
}

// UpdateTask applies the given column updates and returns the stored record.
func (r *Repository) UpdateTask(id uint, updates map[string]any) (*entities.Task, error) {
	var task entities.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &task, nil
}

// DeleteTask soft-deletes a task. The row is removed later by PurgeDeletedTasks.
func (r *Repository) DeleteTask(id uint) error {
	result := r.db.Delete(&entities.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// PurgeDeletedTasks permanently removes tasks soft-deleted before the cutoff.
func (r *Repository) PurgeDeletedTasks(before time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
		Delete(&entities.Task{})
	return result.RowsAffected, result.Error
}
